package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/chess-tools/internal/scraper"
	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagSort   string
	flagColor  string
)

func newTournamentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournaments",
		Short: "List upcoming tournaments",
		Long: `Fetch the upcoming tournament listing and a summary of every tournament on it.
Exits with code 2 when at least one tournament page could not be fetched.`,
		Args: cobra.NoArgs,
		RunE: runTournaments,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagSort, "sort", "none", "Sort order: none (completion order), date or name")

	return cmd
}

func runTournaments(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat, FormatICS)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	batch := a.scraper.Upcoming(cmd.Context())

	result := &TournamentsResult{
		CheckedAt:   time.Now().UTC(),
		Total:       batch.Total,
		Tournaments: batch.Records(),
	}
	for _, t := range batch.Tournaments {
		if t.Failed() {
			result.Failed++
		}
	}
	sortTournaments(result.Tournaments, order)

	if format == FormatICS {
		err = writeICS(cmd.OutOrStdout(), batch.Tournaments)
	} else {
		err = WriteTournaments(cmd.OutOrStdout(), result, format, flagVerbose)
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if result.Failed > 0 {
		return errFetchFailures
	}
	return nil
}

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournament <reference>",
		Short: "Show every detail of one tournament",
		Long: `Show every detail of one tournament. The reference is a numeric id,
FicheTournoi.aspx?Ref=<id>, or the detail page URL.`,
		Args: cobra.ExactArgs(1),
		RunE: runTournament,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")

	return cmd
}

func runTournament(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat, FormatICS)
	if err != nil {
		return err
	}
	ref, err := scraper.NormalizeReference(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	t := a.scraper.FetchDetails(cmd.Context(), ref, a.scraper.DetailMode())
	if format == FormatICS {
		err = writeICS(cmd.OutOrStdout(), []*scraper.Tournament{t})
	} else {
		err = WriteTournament(cmd.OutOrStdout(), t, format)
	}
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if t.Failed() {
		return errFetchFailures
	}
	return nil
}

func newLastGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "last-game <username>",
		Short: "Show the most recent chess.com game of a player",
		Args:  cobra.ExactArgs(1),
		RunE:  runLastGame,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagColor, "color", "", "Expected color of the player: white or black (default: the color actually played)")

	return cmd
}

func runLastGame(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	color := strings.ToLower(strings.TrimSpace(flagColor))
	if color != "" && color != "white" && color != "black" {
		return fmt.Errorf("invalid color: %s (must be 'white' or 'black')", flagColor)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	username := args[0]
	game, err := a.games.LastGame(cmd.Context(), username)
	if err != nil {
		return err
	}

	played := game.Color(username)
	if color != "" && played != "" && color != played {
		return fmt.Errorf("%s played %s in their last game, not %s", username, played, color)
	}
	if color == "" {
		color = played
	}

	result := &GameResult{
		PlayerUsername: username,
		PlayerColor:    color,
		Game:           game,
	}
	if err := WriteGame(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
