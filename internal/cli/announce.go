package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/chess-tools/internal/announce"
	"github.com/pfrederiksen/chess-tools/internal/scraper"
	"github.com/spf13/cobra"
)

var (
	flagParticipant string
	flagTournament  string
	flagLink        string
	flagDate        string
	flagPlace       string
	flagRef         string
	flagChannel     string
	flagDryRun      bool
)

func newAnnounceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announce that a participant joins a tournament",
		Long: `Post a tournament announcement to Discord or Telegram.
With --ref the tournament name, link, dates and address are read from the
tournament page; explicit flags take precedence.`,
		Args: cobra.NoArgs,
		RunE: runAnnounce,
	}

	cmd.Flags().StringVar(&flagParticipant, "participant", "", "Participant name (required)")
	cmd.Flags().StringVar(&flagTournament, "tournament", "", "Tournament name")
	cmd.Flags().StringVar(&flagLink, "link", "", "Registration or follow-up link")
	cmd.Flags().StringVar(&flagDate, "date", "", "Tournament date")
	cmd.Flags().StringVar(&flagPlace, "place", "", "Tournament place")
	cmd.Flags().StringVar(&flagRef, "ref", "", "Tournament reference to fill missing fields from")
	cmd.Flags().StringVar(&flagChannel, "channel", "discord", "Channel: discord or telegram")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the message without sending")

	cmd.MarkFlagRequired("participant")

	return cmd
}

func runAnnounce(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ann := announce.Announcement{
		Participant: flagParticipant,
		Tournament:  flagTournament,
		Link:        flagLink,
		Date:        flagDate,
		Place:       flagPlace,
	}

	if flagRef != "" {
		ref, err := scraper.NormalizeReference(flagRef)
		if err != nil {
			return err
		}
		t := a.scraper.FetchDetails(cmd.Context(), ref, a.scraper.DetailMode())
		if t.Failed() {
			return fmt.Errorf("fetching tournament %s: %w", ref, errFetchFailures)
		}
		fillFromTournament(&ann, t)
	}

	var announcer announce.Announcer
	switch strings.ToLower(flagChannel) {
	case "discord":
		announcer = a.discord
	case "telegram":
		announcer = a.telegram
	default:
		return fmt.Errorf("invalid channel: %s (must be 'discord' or 'telegram')", flagChannel)
	}
	if flagDryRun {
		announcer = announce.NewDryRun(cmd.OutOrStdout())
	}
	if announcer == nil {
		return fmt.Errorf("%s is not configured", flagChannel)
	}

	if err := announcer.Announce(cmd.Context(), ann); err != nil {
		return fmt.Errorf("sending announcement: %w", err)
	}
	if !flagDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Announcement sent.")
	}
	return nil
}

// fillFromTournament sets the announcement fields left empty from the page.
func fillFromTournament(ann *announce.Announcement, t *scraper.Tournament) {
	fill := func(dst *string, value scraper.FieldValue) {
		if *dst == "" && value.State == scraper.Present {
			*dst = value.Text
		}
	}
	fill(&ann.Tournament, t.Value(scraper.FieldName.Key))
	fill(&ann.Date, t.Value(scraper.FieldDates.Key))
	fill(&ann.Place, t.Value(scraper.FieldAddress.Key))
	if ann.Link == "" {
		ann.Link = t.URL
	}
}
