package traffic

import (
	"reflect"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 15, h, m, 0, 0, time.UTC)
}

func testStations() []Station {
	return []Station{
		{ShortName: "A32000", Name: "Fan Pier", Lon: -71.044, Lat: 42.353},
		{ShortName: "B32006", Name: "Harvard Square", Lon: -71.119, Lat: 42.373},
		{ShortName: "C32001", Name: "Kendall T", Lon: -71.086, Lat: 42.362},
	}
}

func TestAggregate_SingleTrip(t *testing.T) {
	stations := []Station{{ShortName: "A"}, {ShortName: "B"}}
	trips := []Trip{{StartStationID: "A", EndStationID: "B", StartedAt: at(10, 0), EndedAt: at(10, 15)}}

	got := Aggregate(stations, trips)
	if len(got) != 2 {
		t.Fatalf("Aggregate() returned %d stations, want 2", len(got))
	}
	a, b := got[0], got[1]
	if a.Departures != 1 || a.Arrivals != 0 || a.TotalTraffic != 1 {
		t.Errorf("A = %+v, want 1 departure, 0 arrivals, total 1", a)
	}
	if b.Departures != 0 || b.Arrivals != 1 || b.TotalTraffic != 1 {
		t.Errorf("B = %+v, want 0 departures, 1 arrival, total 1", b)
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(testStations(), nil)
	for _, s := range got {
		if s.TotalTraffic != 0 || s.Arrivals != 0 || s.Departures != 0 {
			t.Errorf("station %s = %+v, want all zero", s.ShortName, s)
		}
	}
}

func TestAggregate_PreservesOrderAndIdentity(t *testing.T) {
	stations := testStations()
	got := Aggregate(stations, nil)
	for i := range stations {
		if got[i].Station != stations[i] {
			t.Errorf("got[%d].Station = %+v, want %+v", i, got[i].Station, stations[i])
		}
	}
}

func TestAggregate_UnknownStationsIgnored(t *testing.T) {
	trips := []Trip{
		{StartStationID: "A32000", EndStationID: "ZZZ"},
		{StartStationID: "", EndStationID: "B32006"},
	}
	got := Aggregate(testStations(), trips)
	if got[0].Departures != 1 || got[0].Arrivals != 0 {
		t.Errorf("A32000 = %+v, want 1 departure", got[0])
	}
	if got[1].Arrivals != 1 || got[1].Departures != 0 {
		t.Errorf("B32006 = %+v, want 1 arrival", got[1])
	}
	if got[2].TotalTraffic != 0 {
		t.Errorf("C32001 total = %d, want 0", got[2].TotalTraffic)
	}
}

func TestAggregate_TotalsAreTwiceTripCount(t *testing.T) {
	ids := []string{"A32000", "B32006", "C32001"}
	var trips []Trip
	for i := 0; i < 50; i++ {
		trips = append(trips, Trip{StartStationID: ids[i%3], EndStationID: ids[(i*7+1)%3]})
	}

	got := Aggregate(testStations(), trips)
	sum := 0
	for _, s := range got {
		if s.TotalTraffic != s.Arrivals+s.Departures {
			t.Errorf("station %s total %d != %d + %d", s.ShortName, s.TotalTraffic, s.Arrivals, s.Departures)
		}
		sum += s.TotalTraffic
	}
	if sum != 2*len(trips) {
		t.Errorf("sum of totals = %d, want %d", sum, 2*len(trips))
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	stations := testStations()
	before := append([]Station(nil), stations...)
	Aggregate(stations, []Trip{{StartStationID: "A32000", EndStationID: "C32001"}})
	if !reflect.DeepEqual(stations, before) {
		t.Errorf("Aggregate mutated stations: %+v", stations)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	trips := []Trip{
		{StartStationID: "A32000", EndStationID: "B32006", StartedAt: at(9, 30), EndedAt: at(9, 50)},
		{StartStationID: "B32006", EndStationID: "C32001", StartedAt: at(17, 0), EndedAt: at(17, 20)},
		{StartStationID: "C32001", EndStationID: "A32000", StartedAt: at(10, 10), EndedAt: at(10, 40)},
	}
	stations := testStations()
	first := Aggregate(stations, FilterByAnchor(trips, 600))
	second := Aggregate(stations, FilterByAnchor(trips, 600))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestMaxTraffic(t *testing.T) {
	tests := []struct {
		name string
		in   []StationTraffic
		want int
	}{
		{"empty", nil, 0},
		{"all zero", []StationTraffic{{}, {}}, 0},
		{"picks largest", []StationTraffic{{TotalTraffic: 3}, {TotalTraffic: 11}, {TotalTraffic: 7}}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxTraffic(tt.in); got != tt.want {
				t.Errorf("MaxTraffic() = %d, want %d", got, tt.want)
			}
		})
	}
}
