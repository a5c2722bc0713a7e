package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestStartDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"12/10/2026", time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"Du 24/10/2026 au 26/10/2026", time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)},
		{"N/A", time.Time{}},
		{"99/99/2026", time.Time{}},
	}
	for _, tt := range tests {
		if got := startDate(tt.in); !got.Equal(tt.want) {
			t.Errorf("startDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSortTournaments(t *testing.T) {
	newRecords := func() []map[string]string {
		return []map[string]string{
			{"name": "Rapide de Lyon", "dates": "19/10/2026"},
			{"name": "Error", "dates": "Error"},
			{"name": "blitz de Paris", "dates": "26/10/2026"},
			{"name": "Open de Rennes", "dates": "Du 12/10/2026 au 14/10/2026"},
		}
	}
	names := func(records []map[string]string) string {
		out := make([]string, len(records))
		for i, r := range records {
			out[i] = r["name"]
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		order SortOrder
		want  string
	}{
		{SortNone, "Rapide de Lyon,Error,blitz de Paris,Open de Rennes"},
		{SortByDate, "Open de Rennes,Rapide de Lyon,blitz de Paris,Error"},
		{SortByName, "blitz de Paris,Error,Open de Rennes,Rapide de Lyon"},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			records := newRecords()
			sortTournaments(records, tt.order)
			if got := names(records); got != tt.want {
				t.Errorf("sortTournaments(%s) = %s, want %s", tt.order, got, tt.want)
			}
		})
	}
}

func TestParseSortOrderAndFormat(t *testing.T) {
	if o, err := parseSortOrder(" Date "); err != nil || o != SortByDate {
		t.Errorf("parseSortOrder(Date) = %q, %v", o, err)
	}
	if _, err := parseSortOrder("elo"); err == nil {
		t.Error("parseSortOrder(elo) expected error")
	}
	if f, err := parseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("parseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := parseFormat("yaml"); err == nil {
		t.Error("parseFormat(yaml) expected error")
	}
}

func TestWriteTournaments_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTournaments(&buf, &TournamentsResult{}, FormatText, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No tournaments found.") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	result := &TournamentsResult{
		Total:  2,
		Failed: 1,
		Tournaments: []map[string]string{
			{"name": "Open de Rennes", "dates": "12/10/2026", "nombre_rondes": "9", "organisateur": "ER", "url": "u1"},
			{"name": "Error", "dates": "Error", "nombre_rondes": "Error", "organisateur": "Error", "url": "u2"},
		},
	}
	if err := WriteTournaments(&buf, result, FormatText, true); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"12/10/2026 | 9 rounds | ER", "  u1", "Total: 2 tournaments (1 could not be fetched)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
