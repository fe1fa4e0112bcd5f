// README: CSV ingestion for trip exports; header aliasing, timestamp layouts, row-level error counting.
package trip

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"rideinsight/internal/types"
)

// timestampLayouts are tried in order for the trip date column.
var timestampLayouts = []string{
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/06 15:04:05",
}

const (
	colTripID     = "trip id"
	colBookingUID = "booking user id"
	colPickupLat  = "pick up latitude"
	colPickupLng  = "pick up longitude"
	colDropLat    = "drop off latitude"
	colDropLng    = "drop off longitude"
	colPickupAddr = "pick up address"
	colDropAddr   = "drop off address"
	colTimestamp  = "trip date and time"
	colPassengers = "total passengers"
)

// RequiredColumns must be present in every export.
var RequiredColumns = []string{colTripID, colPassengers, colTimestamp}

// LoadReport summarises one CSV load.
type LoadReport struct {
	Rows    int
	Loaded  int
	Skipped int
	Errors  []string
}

// ParseTimestamp accepts any of the known export layouts.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrInvalidRecord, v)
}

// LoadCSVFile opens path and delegates to LoadCSV.
func LoadCSVFile(path string) ([]Trip, LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadReport{}, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV parses a trip export. Rows missing passengers or a parseable
// timestamp are skipped and counted, not fatal.
func LoadCSV(r io.Reader) ([]Trip, LoadReport, error) {
	var report LoadReport
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, report, ErrNoData
		}
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, report, fmt.Errorf("%w: missing required columns: %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var trips []Trip
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, err.Error())
			continue
		}

		t, err := parseRow(row, field)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", report.Rows, err))
			continue
		}
		trips = append(trips, Derive(t))
	}
	report.Loaded = len(trips)
	if len(trips) == 0 {
		return nil, report, ErrNoData
	}
	return trips, report, nil
}

func parseRow(row []string, field func([]string, string) string) (Trip, error) {
	passengersRaw := field(row, colPassengers)
	if passengersRaw == "" {
		return Trip{}, fmt.Errorf("%w: missing passengers", ErrInvalidRecord)
	}
	passengers, err := parsePassengers(passengersRaw)
	if err != nil {
		return Trip{}, err
	}
	at, err := ParseTimestamp(field(row, colTimestamp))
	if err != nil {
		return Trip{}, err
	}
	return Trip{
		ID:             types.ID(field(row, colTripID)),
		BookingUserID:  field(row, colBookingUID),
		PickupAddress:  field(row, colPickupAddr),
		DropoffAddress: field(row, colDropAddr),
		Pickup:         types.Point{Lat: parseCoord(field(row, colPickupLat)), Lng: parseCoord(field(row, colPickupLng))},
		Dropoff:        types.Point{Lat: parseCoord(field(row, colDropLat)), Lng: parseCoord(field(row, colDropLng))},
		At:             at,
		Passengers:     passengers,
	}, nil
}

// parsePassengers accepts whole numbers in MinPassengers..MaxPassengers,
// including the "8.0" spelling spreadsheet exports produce.
func parsePassengers(v string) (int, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: passengers %q", ErrInvalidRecord, v)
	}
	if f < MinPassengers || f > MaxPassengers {
		return 0, fmt.Errorf("%w: passengers %q outside %d-%d", ErrInvalidRecord, v, MinPassengers, MaxPassengers)
	}
	return int(f), nil
}

func parseCoord(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
