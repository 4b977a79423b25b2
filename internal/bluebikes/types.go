package bluebikes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Dataset holds the raw station registry and trip log as loaded from their sources.
type Dataset struct {
	Stations       []StationRecord
	Trips          []TripRecord
	StationsSource string
	TripsSource    string
}

// StationRecord is one entry of the registry's data.stations array.
// Fields not listed here are ignored.
type StationRecord struct {
	ShortName string `json:"short_name"`
	StationID string `json:"station_id"`
	Name      string `json:"name"`
	Lon       Coord  `json:"lon"`
	Lat       Coord  `json:"lat"`
	Capacity  int    `json:"capacity"`
}

type stationRegistry struct {
	Data struct {
		Stations []StationRecord `json:"stations"`
	} `json:"data"`
}

// Coord is a longitude or latitude that may be encoded as a JSON number or
// as a numeric string.
type Coord float64

// UnmarshalJSON accepts 42.36, "42.36" and null.
func (c *Coord) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", s, err)
		}
		*c = Coord(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Coord(f)
	return nil
}

// TripRecord is one row of the trip log CSV.
type TripRecord struct {
	RideID         string `csv:"ride_id"`
	RideableType   string `csv:"rideable_type"`
	StartedAt      string `csv:"started_at"`
	EndedAt        string `csv:"ended_at"`
	StartStationID string `csv:"start_station_id"`
	EndStationID   string `csv:"end_station_id"`
	MemberCasual   string `csv:"member_casual"`
}
