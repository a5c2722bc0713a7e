package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// BotUsername is the display name used for webhook posts.
	BotUsername = "Tournoi Bot"
	timeout     = 10 * time.Second
)

// Discord posts announcements to a Discord webhook
type Discord struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscord creates a new Discord webhook announcer
func NewDiscord(webhookURL string) (*Discord, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("discord webhook URL is required")
	}

	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Announce posts the formatted announcement. Discord answers a successful
// webhook execution with 204 No Content; any other status is an error.
func (d *Discord) Announce(ctx context.Context, a Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"content":  Format(a),
		"username": BotUsername,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("discord webhook error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
