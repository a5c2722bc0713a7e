package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/chess-tools/internal/calendar"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone   SortOrder = "none"
	SortByDate SortOrder = "date"
	SortByName SortOrder = "name"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortNone, SortByDate, SortByName:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'none', 'date' or 'name')", s)
}

// startDate returns the first date of a dates field, or the zero time if
// there is none.
func startDate(dates string) time.Time {
	start, _, _ := calendar.ParseDates(dates)
	return start
}

// sortTournaments sorts tournament records based on the specified sort order.
// SortNone keeps the order the records were collected in.
func sortTournaments(records []map[string]string, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			ni, nj := strings.ToLower(records[i]["name"]), strings.ToLower(records[j]["name"])
			if ni != nj {
				return ni < nj
			}
			// If names are equal, sort by date
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate returns true if record i should come before record j
func compareByDate(i, j map[string]string) bool {
	dateI := startDate(i["dates"])
	dateJ := startDate(j["dates"])

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		if !dateI.Equal(dateJ) {
			return dateI.Before(dateJ)
		}
		return strings.ToLower(i["name"]) < strings.ToLower(j["name"])
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	return strings.ToLower(i["name"]) < strings.ToLower(j["name"])
}
