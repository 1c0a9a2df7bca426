// Package gtfs loads a GTFS static feed directory into a store.Raw,
// the flat entity set package store indexes at Build time.
package gtfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tpreuss/multimodal-router/store"
	"github.com/tpreuss/multimodal-router/util"
)

type stopRow struct {
	ID   string  `csv:"stop_id"`
	Name string  `csv:"stop_name"`
	Lat  float64 `csv:"stop_lat"`
	Lon  float64 `csv:"stop_lon"`
}

type routeRow struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
}

type agencyRow struct {
	ID   string `csv:"agency_id"`
	Name string `csv:"agency_name"`
}

type tripRow struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

type stopTimeRow struct {
	TripID    string `csv:"trip_id"`
	StopID    string `csv:"stop_id"`
	Arrival   string `csv:"arrival_time"`
	Departure string `csv:"departure_time"`
	Sequence  int    `csv:"stop_sequence"`
}

type calendarRow struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	Start     string `csv:"start_date"`
	End       string `csv:"end_date"`
}

type calendarDateRow struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// ids interns GTFS's string identifiers into the store's compact int64
// ids, assigned in first-seen order -- every GTFS id namespace
// (stop_id, trip_id, ...) is independent, so each gets its own interner.
type ids struct {
	next int64
	by   map[string]int64
}

func newIDs() *ids { return &ids{next: 1, by: make(map[string]int64)} }

func (x *ids) get(key string) int64 {
	if id, ok := x.by[key]; ok {
		return id
	}
	id := x.next
	x.next++
	x.by[key] = id
	return id
}

// Load reads the standard GTFS text files from dir and returns the Raw
// entity set store.Build consumes. calendar_dates.txt is optional --
// its absence is not an error, per GTFS's own spec.
func Load(dir string) (store.Raw, error) {
	stopIDs := newIDs()
	tripIDs := newIDs()
	serviceIDs := newIDs()
	routeIDs := newIDs()
	agencyIDs := newIDs()

	var raw store.Raw

	for row := range util.ReadCSVFromFile[stopRow](filepath.Join(dir, "stops.txt"), ',') {
		raw.Stops = append(raw.Stops, store.Stop{
			ID:       store.StopID(stopIDs.get(row.ID)),
			Location: [2]float64{row.Lon, row.Lat},
			Name:     row.Name,
		})
	}
	if len(raw.Stops) == 0 {
		return store.Raw{}, fmt.Errorf("gtfs: stops.txt yielded no stops in %s", dir)
	}

	for row := range util.ReadCSVFromFile[agencyRow](filepath.Join(dir, "agency.txt"), ',') {
		raw.Agencies = append(raw.Agencies, store.Agency{
			ID:   store.AgencyID(agencyIDs.get(row.ID)),
			Name: row.Name,
		})
	}

	for row := range util.ReadCSVFromFile[routeRow](filepath.Join(dir, "routes.txt"), ',') {
		raw.Routes = append(raw.Routes, store.Route{
			ID:        store.RouteID(routeIDs.get(row.ID)),
			Agency:    store.AgencyID(agencyIDs.get(row.AgencyID)),
			ShortName: row.ShortName,
			LongName:  row.LongName,
		})
	}

	for row := range util.ReadCSVFromFile[tripRow](filepath.Join(dir, "trips.txt"), ',') {
		raw.Trips = append(raw.Trips, store.Trip{
			ID:      store.TripID(tripIDs.get(row.ID)),
			Route:   store.RouteID(routeIDs.get(row.RouteID)),
			Service: store.ServiceID(serviceIDs.get(row.ServiceID)),
		})
	}

	for row := range util.ReadCSVFromFile[calendarRow](filepath.Join(dir, "calendar.txt"), ',') {
		start, err := parseDate(row.Start)
		if err != nil {
			return store.Raw{}, fmt.Errorf("gtfs: calendar.txt start_date: %w", err)
		}
		end, err := parseDate(row.End)
		if err != nil {
			return store.Raw{}, fmt.Errorf("gtfs: calendar.txt end_date: %w", err)
		}
		raw.Services = append(raw.Services, store.Service{
			ID:    store.ServiceID(serviceIDs.get(row.ServiceID)),
			Start: start,
			End:   end,
			Days: [7]bool{
				time.Sunday:    row.Sunday == 1,
				time.Monday:    row.Monday == 1,
				time.Tuesday:   row.Tuesday == 1,
				time.Wednesday: row.Wednesday == 1,
				time.Thursday:  row.Thursday == 1,
				time.Friday:    row.Friday == 1,
				time.Saturday:  row.Saturday == 1,
			},
		})
	}

	calendarDatesFile := filepath.Join(dir, "calendar_dates.txt")
	calendarDates := util.ReadCSVFromFile[calendarDateRow](calendarDatesFile, ',')
	if _, err := os.Stat(calendarDatesFile); os.IsNotExist(err) {
		calendarDates = func(func(calendarDateRow) bool) {}
	}
	for row := range calendarDates {
		date, err := parseDate(row.Date)
		if err != nil {
			continue
		}
		raw.Excepts = append(raw.Excepts, store.ServiceException{
			Service: store.ServiceID(serviceIDs.get(row.ServiceID)),
			Date:    date,
			Added:   row.ExceptionType == 1,
		})
	}

	for row := range util.ReadCSVFromFile[stopTimeRow](filepath.Join(dir, "stop_times.txt"), ',') {
		arrival, err := parseClock(row.Arrival)
		if err != nil {
			return store.Raw{}, fmt.Errorf("gtfs: stop_times.txt arrival_time: %w", err)
		}
		departure, err := parseClock(row.Departure)
		if err != nil {
			return store.Raw{}, fmt.Errorf("gtfs: stop_times.txt departure_time: %w", err)
		}
		raw.StopTimes = append(raw.StopTimes, store.StopTime{
			Trip:      store.TripID(tripIDs.get(row.TripID)),
			Stop:      store.StopID(stopIDs.get(row.StopID)),
			Arrival:   arrival,
			Departure: departure,
			Sequence:  row.Sequence,
		})
	}

	return raw, nil
}

// parseClock parses a GTFS "HH:MM:SS" time-of-day, allowing HH >= 24 for
// trips that run past midnight (SPEC_FULL section 3).
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + sec, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("20060102", strings.TrimSpace(s))
}
