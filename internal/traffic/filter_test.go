package traffic

import (
	"reflect"
	"testing"
	"time"
)

func TestMinutesSinceMidnight(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"midnight", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 0},
		{"ignores seconds", time.Date(2024, 3, 1, 10, 5, 59, 999, time.UTC), 605},
		{"ignores date", time.Date(2024, 3, 31, 10, 5, 0, 0, time.UTC), 605},
		{"last minute", time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC), 1439},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinutesSinceMidnight(tt.in); got != tt.want {
				t.Errorf("MinutesSinceMidnight(%s) = %d, want %d", tt.in.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestFilterByAnchor_UnfilteredIsIdentity(t *testing.T) {
	trips := []Trip{
		{StartStationID: "A", EndStationID: "B", StartedAt: at(1, 0), EndedAt: at(1, 10)},
		{StartStationID: "B", EndStationID: "A", StartedAt: at(22, 0), EndedAt: at(22, 5)},
	}
	got := FilterByAnchor(trips, Unfiltered)
	if !reflect.DeepEqual(got, trips) {
		t.Errorf("FilterByAnchor(Unfiltered) = %+v, want %+v", got, trips)
	}
}

func TestFilterByAnchor(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		anchor Anchor
		keep   bool
	}{
		{"start within window", at(10, 5), at(11, 40), 600, true},
		{"both endpoints far", at(11, 40), at(11, 45), 600, false},
		{"end within window", at(8, 0), at(9, 30), 600, true},
		{"start exactly 60 before", at(9, 0), at(9, 1), 600, true},
		{"start exactly 60 after", at(11, 0), at(11, 30), 600, true},
		{"61 minutes away", at(8, 59), at(8, 59), 600, false},
		{"no midnight wrap", at(23, 50), at(23, 55), 10, false},
		{"anchor at 1440", at(23, 30), at(23, 35), 1440, true},
		{"zero start ignored", time.Time{}, at(10, 0), 600, true},
		{"both zero never match", time.Time{}, time.Time{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips := []Trip{{StartStationID: "A", EndStationID: "B", StartedAt: tt.start, EndedAt: tt.end}}
			got := FilterByAnchor(trips, tt.anchor)
			if kept := len(got) == 1; kept != tt.keep {
				t.Errorf("FilterByAnchor(anchor=%d) kept=%v, want %v", tt.anchor, kept, tt.keep)
			}
		})
	}
}

func TestFilterByAnchor_SubsetInOrder(t *testing.T) {
	var trips []Trip
	for h := 0; h < 24; h++ {
		trips = append(trips, Trip{StartStationID: "A", EndStationID: "B", StartedAt: at(h, 15), EndedAt: at(h, 30)})
	}
	for _, anchor := range []Anchor{0, 300, 600, 1020, 1439} {
		got := FilterByAnchor(trips, anchor)
		j := 0
		for _, g := range got {
			for j < len(trips) && trips[j] != g {
				j++
			}
			if j == len(trips) {
				t.Fatalf("anchor %d: trip %+v not found in input order", anchor, g)
			}
			j++
		}
		if len(got) > len(trips) {
			t.Errorf("anchor %d: %d trips out, %d in", anchor, len(got), len(trips))
		}
	}
}

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		in      string
		want    Anchor
		wantErr bool
	}{
		{"", Unfiltered, false},
		{"-1", Unfiltered, false},
		{"0", 0, false},
		{"600", 600, false},
		{"1440", 1440, false},
		{"1441", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
		{"600abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnchor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAnchor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAnchor(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAnchor(t *testing.T) {
	tests := []struct {
		in   Anchor
		want string
	}{
		{Unfiltered, ""},
		{0, "12:00 AM"},
		{600, "10:00 AM"},
		{725, "12:05 PM"},
		{1439, "11:59 PM"},
		{1440, "12:00 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAnchor(tt.in); got != tt.want {
				t.Errorf("FormatAnchor(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
