// Package calendar renders tournaments as iCalendar (.ics) data.
package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/chess-tools/internal/scraper"
)

const dateLayout = "02/01/2006"

var datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// ParseDates reads the first and last dd/mm/yyyy dates of a dates field such
// as "Du 24/10/2026 au 26/10/2026". A single date gives start == end.
func ParseDates(s string) (start, end time.Time, ok bool) {
	var dates []time.Time
	for _, m := range datePattern.FindAllString(s, -1) {
		d, err := time.Parse(dateLayout, m)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = dates[0], dates[len(dates)-1]
	if end.Before(start) {
		end = start
	}
	return start, end, true
}

// GenerateICS generates an iCalendar document with one all-day event per
// tournament. Tournaments without a readable date are skipped; the number of
// events written is returned.
func GenerateICS(tournaments []*scraper.Tournament, name string, now time.Time) (string, int) {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Chess Tools//chess-tools//FR\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(name)))
	}

	written := 0
	for _, t := range tournaments {
		if writeEvent(&ics, t, now) {
			written++
		}
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String(), written
}

func writeEvent(ics *strings.Builder, t *scraper.Tournament, now time.Time) bool {
	dates := t.Value(scraper.FieldDates.Key)
	if dates.State != scraper.Present {
		return false
	}
	start, end, ok := ParseDates(dates.Text)
	if !ok {
		return false
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@chess-tools\r\n", uid(t.Ref)))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	// DTEND is exclusive for all-day events
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102")))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", end.AddDate(0, 0, 1).Format("20060102")))

	summary := t.Get(scraper.FieldName.Key)
	if t.Value(scraper.FieldName.Key).State != scraper.Present {
		summary = "Tournoi " + uid(t.Ref)
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	var description []string
	for _, f := range []scraper.Field{scraper.FieldRounds, scraper.FieldTimeControl, scraper.FieldOrganizer, scraper.FieldContact} {
		if v := t.Value(f.Key); v.State == scraper.Present && v.Text != "" {
			description = append(description, fmt.Sprintf("%s: %s", f.Key, v.Text))
		}
	}
	if len(description) > 0 {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(strings.Join(description, "\n"))))
	}

	if v := t.Value(scraper.FieldAddress.Key); v.State == scraper.Present && v.Text != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(v.Text)))
	}

	ics.WriteString(fmt.Sprintf("URL:%s\r\n", t.URL))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
	return true
}

// uid turns "FicheTournoi.aspx?Ref=65012" into "65012".
func uid(ref string) string {
	if i := strings.LastIndex(ref, "="); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
