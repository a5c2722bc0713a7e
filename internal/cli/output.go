package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/chess-tools/internal/calendar"
	"github.com/pfrederiksen/chess-tools/internal/chesscom"
	"github.com/pfrederiksen/chess-tools/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// parseFormat accepts text and json, plus any extra formats a command supports.
func parseFormat(s string, extra ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	allowed := append([]OutputFormat{FormatText, FormatJSON}, extra...)
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if format == f {
			return format, nil
		}
		names[i] = "'" + string(f) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be one of %s)", s, strings.Join(names, ", "))
}

// writeICS outputs tournaments as an iCalendar document
func writeICS(w io.Writer, tournaments []*scraper.Tournament) error {
	ics, _ := calendar.GenerateICS(tournaments, calendarName, time.Now())
	_, err := io.WriteString(w, ics)
	return err
}

const calendarName = "Tournois d'échecs"

// fieldLabels are the human-readable names used by the text output.
var fieldLabels = map[string]string{
	"name":               "Name",
	"dates":              "Dates",
	"nombre_rondes":      "Rounds",
	"cadence":            "Time control",
	"organisateur":       "Organizer",
	"arbitre":            "Arbiter",
	"adresse":            "Address",
	"contact":            "Contact",
	"premier_prix":       "First prize",
	"inscription_senior": "Senior fee",
	"inscription_jeunes": "Youth fee",
	"annonce":            "Announcement",
	"url":                "URL",
}

func label(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	return key
}

// TournamentsResult contains the upcoming tournaments to be output
type TournamentsResult struct {
	CheckedAt   time.Time           `json:"checked_at"`
	Total       int                 `json:"total_tournaments"`
	Failed      int                 `json:"failed"`
	Tournaments []map[string]string `json:"tournaments"`
}

// WriteTournaments writes the tournament list in the specified format
func WriteTournaments(w io.Writer, result *TournamentsResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeTournamentsText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteTournament writes every field of one tournament in the specified format
func WriteTournament(w io.Writer, t *scraper.Tournament, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, t)
	case FormatText:
		for _, f := range t.Fields() {
			fmt.Fprintf(w, "%-14s %s\n", label(f.Key)+":", t.Get(f.Key))
		}
		fmt.Fprintf(w, "%-14s %s\n", label("url")+":", t.URL)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// GameResult is the last game of a player as output by last-game
type GameResult struct {
	PlayerUsername string         `json:"player_username"`
	PlayerColor    string         `json:"player_color"`
	Game           *chesscom.Game `json:"game"`
}

// WriteGame writes a game in the specified format
func WriteGame(w io.Writer, result *GameResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		g := result.Game
		fmt.Fprintf(w, "%s played %s\n", result.PlayerUsername, result.PlayerColor)
		fmt.Fprintf(w, "  White: %s (%d) %s\n", g.White.Username, g.White.Rating, g.White.Result)
		fmt.Fprintf(w, "  Black: %s (%d) %s\n", g.Black.Username, g.Black.Rating, g.Black.Result)
		if g.TimeClass != "" {
			fmt.Fprintf(w, "  Time control: %s (%s)\n", g.TimeControl, g.TimeClass)
		}
		if g.URL != "" {
			fmt.Fprintf(w, "  URL: %s\n", g.URL)
		}
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(g.PGN))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeTournamentsText outputs tournaments as human-readable text
func writeTournamentsText(w io.Writer, result *TournamentsResult, verbose bool) error {
	if result.Total == 0 {
		fmt.Fprintln(w, "No tournaments found.")
		return nil
	}

	for _, rec := range result.Tournaments {
		fmt.Fprintf(w, "\n%s\n", rec["name"])
		fmt.Fprintf(w, "  %s | %s rounds | %s\n", rec["dates"], rec["nombre_rondes"], rec["organisateur"])
		if verbose {
			fmt.Fprintf(w, "  %s\n", rec["url"])
		}
	}

	if result.Failed > 0 {
		fmt.Fprintf(w, "\nTotal: %d tournaments (%d could not be fetched)\n", result.Total, result.Failed)
	} else {
		fmt.Fprintf(w, "\nTotal: %d tournaments\n", result.Total)
	}
	return nil
}
