package announce

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Announcement describes a participant joining a tournament
type Announcement struct {
	Participant string `json:"nom"`
	Tournament  string `json:"tournoi"`
	Link        string `json:"lien"`
	Date        string `json:"date"`
	Place       string `json:"lieu"`
}

// Validate checks the fields an announcement cannot do without.
func (a Announcement) Validate() error {
	if strings.TrimSpace(a.Participant) == "" {
		return fmt.Errorf("participant name is required")
	}
	if strings.TrimSpace(a.Tournament) == "" {
		return fmt.Errorf("tournament name is required")
	}
	return nil
}

// Announcer defines the interface for posting announcements
type Announcer interface {
	// Announce posts one announcement
	Announce(ctx context.Context, a Announcement) error
}

// Format renders the announcement text posted to chat channels.
func Format(a Announcement) string {
	var msg strings.Builder

	msg.WriteString("📢 Attention tout le monde !\n\n")
	msg.WriteString(fmt.Sprintf("✨ **@%s** ✨ va participer au tournoi **%s** ! 🎮🏆\n\n", a.Participant, a.Tournament))
	msg.WriteString(fmt.Sprintf("🗓 Date et lieu : %s %s\n", a.Date, a.Place))
	msg.WriteString(fmt.Sprintf("🔗 Inscrivez-vous ou suivez le tournoi ici : %s\n\n", a.Link))
	msg.WriteString("Préparez-vous à encourager et à passer un bon moment ! 💪")

	return msg.String()
}

// DryRun writes what would be posted without posting it
type DryRun struct {
	w io.Writer
}

// NewDryRun creates a dry-run announcer writing to w
func NewDryRun(w io.Writer) *DryRun {
	return &DryRun{w: w}
}

// Announce prints the announcement
func (d *DryRun) Announce(ctx context.Context, a Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	text := Format(a)
	fmt.Fprintln(d.w, "--- Announcement ---")
	fmt.Fprintln(d.w, text)
	fmt.Fprintf(d.w, "\n(Length: %d characters)\n", len([]rune(text)))
	return nil
}
