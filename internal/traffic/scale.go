package traffic

import (
	"fmt"
	"math"
)

// Radius ranges in pixels. Filtered views use a wider range because the
// domain maximum always comes from the unfiltered dataset.
const (
	UnfilteredMinRadius = 0
	UnfilteredMaxRadius = 25
	FilteredMinRadius   = 3
	FilteredMaxRadius   = 50
)

// RadiusScale maps total traffic to a circle radius with a square-root scale
// over the domain [0, MaxTraffic].
type RadiusScale struct {
	MaxTraffic int
	MinRadius  float64
	MaxRadius  float64
}

// NewRadiusScale returns the scale used for the given anchor.
func NewRadiusScale(maxTraffic int, anchor Anchor) RadiusScale {
	lo, hi := RadiusRange(anchor)
	return RadiusScale{MaxTraffic: maxTraffic, MinRadius: lo, MaxRadius: hi}
}

// RadiusRange returns the [min, max] radius for the anchor.
func RadiusRange(anchor Anchor) (lo, hi float64) {
	if anchor == Unfiltered {
		return UnfilteredMinRadius, UnfilteredMaxRadius
	}
	return FilteredMinRadius, FilteredMaxRadius
}

// Radius returns the circle radius for a traffic total.
func (s RadiusScale) Radius(total int) float64 {
	if s.MaxTraffic <= 0 || total <= 0 {
		return s.MinRadius
	}
	frac := math.Sqrt(float64(total)) / math.Sqrt(float64(s.MaxTraffic))
	return s.MinRadius + frac*(s.MaxRadius-s.MinRadius)
}

// NeutralRatio is the departure ratio reported for stations with no traffic.
const NeutralRatio = 0.5

// DepartureRatio quantizes departures/total into one of {0, 0.5, 1}, with
// thresholds at 1/3 and 2/3. A station without traffic gets NeutralRatio.
func DepartureRatio(departures, total int) float64 {
	if total <= 0 {
		return NeutralRatio
	}
	buckets := [...]float64{0, 0.5, 1}
	i := departures * len(buckets) / total
	if i < 0 {
		i = 0
	}
	if i >= len(buckets) {
		i = len(buckets) - 1
	}
	return buckets[i]
}

// Tooltip is the hover text for a station marker.
func Tooltip(st StationTraffic) string {
	return fmt.Sprintf("%d trips (%d departures, %d arrivals)", st.TotalTraffic, st.Departures, st.Arrivals)
}
