package bluebikes

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"
)

// ParseStations decodes a station registry document.
// Records without a short_name are dropped and duplicate short names keep
// the first occurrence, since short_name is the join key for trips.
func ParseStations(r io.Reader, logger *slog.Logger) ([]StationRecord, error) {
	var reg stationRegistry
	if err := json.NewDecoder(r).Decode(&reg); err != nil {
		return nil, fmt.Errorf("decode station registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Data.Stations))
	stations := make([]StationRecord, 0, len(reg.Data.Stations))
	var unnamed, dupes int
	for _, s := range reg.Data.Stations {
		s.ShortName = strings.TrimSpace(s.ShortName)
		switch {
		case s.ShortName == "":
			unnamed++
		case seen[s.ShortName]:
			dupes++
		default:
			seen[s.ShortName] = true
			stations = append(stations, s)
		}
	}
	if unnamed > 0 || dupes > 0 {
		logger.Warn("station registry entries skipped", "missing_short_name", unnamed, "duplicates", dupes)
	}
	return stations, nil
}

// ParseTrips reads the trip log CSV. Columns are matched by header name, so
// extra columns and any column order are accepted.
func ParseTrips(r io.Reader) ([]TripRecord, error) {
	return parseCSV[TripRecord](r)
}

// wallClockLayouts carry no zone and are read as the wall clock they print.
var wallClockLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05.999999999",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseTimestamp returns the wall clock of a trip timestamp. Zone-less
// values keep their printed clock time, including times skipped by a DST
// change. Values carrying an offset are converted to loc first. It returns
// the zero time and false when no layout matches.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCSV reads CSV from r and decodes it into a slice of T.
func parseCSV[T any](r io.Reader) ([]T, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// Strip BOM from first field if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}

	fieldMap := buildFieldMap[T](header)

	var results []T
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		results = append(results, decodeRecord[T](record, fieldMap))
	}
	return results, nil
}

type fieldMapping struct {
	csvIndex   int
	fieldIndex int
}

// buildFieldMap creates a mapping from CSV column positions to struct field positions.
func buildFieldMap[T any](header []string) []fieldMapping {
	var t T
	typ := reflect.TypeOf(t)

	tagToField := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("csv"); tag != "" {
			tagToField[tag] = i
		}
	}

	var mappings []fieldMapping
	for csvIdx, colName := range header {
		colName = strings.TrimSpace(colName)
		if fieldIdx, ok := tagToField[colName]; ok {
			mappings = append(mappings, fieldMapping{csvIndex: csvIdx, fieldIndex: fieldIdx})
		}
	}
	return mappings
}

// decodeRecord fills a struct T from a CSV record using the field mapping.
func decodeRecord[T any](record []string, fieldMap []fieldMapping) T {
	var t T
	v := reflect.ValueOf(&t).Elem()
	for _, fm := range fieldMap {
		if fm.csvIndex < len(record) {
			v.Field(fm.fieldIndex).SetString(strings.TrimSpace(record[fm.csvIndex]))
		}
	}
	return t
}
