// Package server exposes the chess and math tools over the Model Context Protocol
// and mounts them, together with a small index page, on an HTTP mux.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/chess-tools/internal/announce"
	"github.com/pfrederiksen/chess-tools/internal/chesscom"
	"github.com/pfrederiksen/chess-tools/internal/logger"
	"github.com/pfrederiksen/chess-tools/internal/scraper"
)

const (
	ChessServerName = "Chess Analysis Server"
	MathServerName  = "MathServer"
	Version         = "1.0.0"
)

// TournamentSource is the scrape path used by the tournament tools.
type TournamentSource interface {
	Upcoming(ctx context.Context) *scraper.Batch
	FetchDetails(ctx context.Context, ref string, mode scraper.Mode) *scraper.Tournament
	DetailMode() scraper.Mode
}

// GameSource looks up a player's games.
type GameSource interface {
	LastGame(ctx context.Context, username string) (*chesscom.Game, error)
}

// ChessTools holds the collaborators of the chess server. Discord may be nil,
// in which case the Discord tool reports that it is not configured. Telegram
// may be nil, in which case the Telegram tool is not registered.
type ChessTools struct {
	Tournaments TournamentSource
	Games       GameSource
	Discord     announce.Announcer
	Telegram    announce.Announcer
}

type UpcomingInput struct{}

type UpcomingOutput struct {
	TotalTournaments int                 `json:"total_tournaments"`
	Tournaments      []map[string]string `json:"tournaments"`
}

type DetailsInput struct {
	Reference string `json:"reference" jsonschema:"tournament reference: numeric id, FicheTournoi.aspx?Ref=<id> or the detail page URL"`
}

type LatestGameInput struct {
	Username    string `json:"username" jsonschema:"chess.com username"`
	PlayerColor string `json:"player_color" jsonschema:"color to analyse the game for: white or black"`
}

type LatestGameOutput struct {
	PlayerUsername string `json:"player_username"`
	PlayerColor    string `json:"player_color"`
	PGN            string `json:"pgn"`
	URL            string `json:"url,omitempty"`
}

// MessageInput mirrors the announcement fields using the names agents already send.
type MessageInput struct {
	Nom     string `json:"nom" jsonschema:"participant name"`
	Tournoi string `json:"tournoi" jsonschema:"tournament name"`
	Lien    string `json:"lien" jsonschema:"registration or follow-up link"`
	Date    string `json:"date" jsonschema:"tournament date"`
	Lieu    string `json:"lieu" jsonschema:"tournament place"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

// NewChessServer builds the MCP server carrying the chess tools.
func NewChessServer(tools ChessTools) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: ChessServerName, Version: Version}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_tournaments_upcoming",
		Description: "Retrieves information about upcoming chess tournaments (name, dates, number of rounds, organizer)",
	}, tools.upcoming)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_tournament_details",
		Description: "Retrieves every published detail of one chess tournament (time control, arbiter, address, contact, prizes, fees, announcement)",
	}, tools.details)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "analyze_latest_game",
		Description: "Analyzes the most recent chess game of a user and provides detailed analysis for the specified player color",
	}, tools.latestGame)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "send_message_discord",
		Description: "Sends a Discord message to announce that a participant joins a tournament.",
	}, tools.sendDiscord)

	if tools.Telegram != nil {
		mcp.AddTool(s, &mcp.Tool{
			Name:        "send_message_telegram",
			Description: "Sends a Telegram message to announce that a participant joins a tournament.",
		}, tools.sendTelegram)
	}

	return s
}

// upcoming never fails: scrape failures are carried in the records.
func (t ChessTools) upcoming(ctx context.Context, _ *mcp.CallToolRequest, _ UpcomingInput) (*mcp.CallToolResult, UpcomingOutput, error) {
	defer observe("get_tournaments_upcoming", time.Now(), nil)

	batch := t.Tournaments.Upcoming(ctx)
	return nil, UpcomingOutput{
		TotalTournaments: batch.Total,
		Tournaments:      batch.Records(),
	}, nil
}

func (t ChessTools) details(ctx context.Context, _ *mcp.CallToolRequest, in DetailsInput) (_ *mcp.CallToolResult, _ map[string]string, err error) {
	defer func(start time.Time) { observe("get_tournament_details", start, err) }(time.Now())

	ref, err := scraper.NormalizeReference(in.Reference)
	if err != nil {
		return nil, nil, err
	}
	return nil, t.Tournaments.FetchDetails(ctx, ref, t.Tournaments.DetailMode()).Record(), nil
}

func (t ChessTools) latestGame(ctx context.Context, _ *mcp.CallToolRequest, in LatestGameInput) (_ *mcp.CallToolResult, _ LatestGameOutput, err error) {
	defer func(start time.Time) { observe("analyze_latest_game", start, err) }(time.Now())

	color := strings.ToLower(strings.TrimSpace(in.PlayerColor))
	if color != "white" && color != "black" {
		return nil, LatestGameOutput{}, fmt.Errorf("player_color must be white or black, got %q", in.PlayerColor)
	}

	game, err := t.Games.LastGame(ctx, in.Username)
	if err != nil {
		return nil, LatestGameOutput{}, err
	}

	return nil, LatestGameOutput{
		PlayerUsername: in.Username,
		PlayerColor:    color,
		PGN:            game.PGN,
		URL:            game.URL,
	}, nil
}

func (t ChessTools) sendDiscord(ctx context.Context, _ *mcp.CallToolRequest, in MessageInput) (_ *mcp.CallToolResult, _ MessageOutput, err error) {
	defer func(start time.Time) { observe("send_message_discord", start, err) }(time.Now())

	if t.Discord == nil {
		return nil, MessageOutput{}, errors.New("discord webhook is not configured")
	}
	return send(ctx, t.Discord, in)
}

func (t ChessTools) sendTelegram(ctx context.Context, _ *mcp.CallToolRequest, in MessageInput) (_ *mcp.CallToolResult, _ MessageOutput, err error) {
	defer func(start time.Time) { observe("send_message_telegram", start, err) }(time.Now())

	return send(ctx, t.Telegram, in)
}

func send(ctx context.Context, a announce.Announcer, in MessageInput) (*mcp.CallToolResult, MessageOutput, error) {
	err := a.Announce(ctx, announce.Announcement{
		Participant: in.Nom,
		Tournament:  in.Tournoi,
		Link:        in.Lien,
		Date:        in.Date,
		Place:       in.Lieu,
	})
	if err != nil {
		return nil, MessageOutput{}, fmt.Errorf("Erreur lors de l'envoi : %w", err)
	}
	return nil, MessageOutput{Message: "Message envoyé avec succès !"}, nil
}

// observe logs a tool call and records its duration.
func observe(tool string, start time.Time, err error) {
	elapsed := time.Since(start)
	logger.RecordTiming("tool."+tool, elapsed)
	fields := logger.Fields{
		"tool":    tool,
		"elapsed": elapsed.String(),
	}
	if err != nil {
		logger.IncrCounter("tool." + tool + ".error")
		logger.Warn("Tool call failed", fields)
		return
	}
	logger.IncrCounter("tool." + tool)
	logger.Info("Tool call", fields)
}
