// Package chesscom is a small client for the chess.com published-data API.
package chesscom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.chess.com/pub"
	UserAgent      = "chess-tools/1.0 (github.com/pfrederiksen/chess-tools)"
	timeout        = 15 * time.Second
)

var (
	ErrNoArchives = errors.New("player has no game archives")
	ErrNoGames    = errors.New("archive contains no games")
)

// Client is a client for the chess.com public API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a chess.com API client. An empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Player is one side of a game
type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

// Game is a finished game as published in a monthly archive
type Game struct {
	URL         string `json:"url"`
	PGN         string `json:"pgn"`
	TimeControl string `json:"time_control"`
	TimeClass   string `json:"time_class"`
	Rated       bool   `json:"rated"`
	EndTime     int64  `json:"end_time"`
	Rules       string `json:"rules"`
	White       Player `json:"white"`
	Black       Player `json:"black"`
}

// Color returns "white" or "black" for the side username played, or "" if
// the player is not in the game.
func (g *Game) Color(username string) string {
	switch {
	case strings.EqualFold(g.White.Username, username):
		return "white"
	case strings.EqualFold(g.Black.Username, username):
		return "black"
	}
	return ""
}

// Archives returns the monthly archive URLs of a player, oldest first.
func (c *Client) Archives(ctx context.Context, username string) ([]string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	reqURL := fmt.Sprintf("%s/player/%s/games/archives", c.baseURL, url.PathEscape(username))

	var result struct {
		Archives []string `json:"archives"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("fetching archives for %s: %w", username, err)
	}
	return result.Archives, nil
}

// Games returns the games of one monthly archive, in the order published.
func (c *Client) Games(ctx context.Context, archiveURL string) ([]Game, error) {
	var result struct {
		Games []Game `json:"games"`
	}
	if err := c.getJSON(ctx, archiveURL, &result); err != nil {
		return nil, fmt.Errorf("fetching archive %s: %w", archiveURL, err)
	}
	return result.Games, nil
}

// LastGame returns the most recent game of a player: the last game of the
// most recent archive.
func (c *Client) LastGame(ctx context.Context, username string) (*Game, error) {
	archives, err := c.Archives(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, ErrNoArchives
	}

	games, err := c.Games(ctx, archives[len(archives)-1])
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNoGames
	}

	return &games[len(games)-1], nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
