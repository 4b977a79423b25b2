package traffic

import "time"

// Station is a fixed docking location from the station registry.
type Station struct {
	ShortName string
	Name      string
	Lon       float64
	Lat       float64
}

// Trip is a single rental from one station to another.
// A zero StartedAt or EndedAt means the source timestamp could not be parsed.
type Trip struct {
	StartStationID string
	EndStationID   string
	StartedAt      time.Time
	EndedAt        time.Time
}

// StationTraffic is a station with its arrival and departure counts.
type StationTraffic struct {
	Station
	Arrivals     int
	Departures   int
	TotalTraffic int
}

// Aggregate counts departures by start station and arrivals by end station.
// The result has one entry per station in the same order as stations.
// Trips whose ids match no station are ignored.
func Aggregate(stations []Station, trips []Trip) []StationTraffic {
	departures := make(map[string]int)
	arrivals := make(map[string]int)
	for _, t := range trips {
		departures[t.StartStationID]++
		arrivals[t.EndStationID]++
	}

	out := make([]StationTraffic, len(stations))
	for i, s := range stations {
		a := arrivals[s.ShortName]
		d := departures[s.ShortName]
		out[i] = StationTraffic{
			Station:      s,
			Arrivals:     a,
			Departures:   d,
			TotalTraffic: a + d,
		}
	}
	return out
}

// MaxTraffic returns the largest TotalTraffic, or 0 for an empty slice.
func MaxTraffic(stations []StationTraffic) int {
	max := 0
	for _, s := range stations {
		if s.TotalTraffic > max {
			max = s.TotalTraffic
		}
	}
	return max
}
