// Package cli implements the command-line interface for chess-tools.
//
// The cli package provides the Cobra-based CLI: serving the MCP tool servers over
// streamable HTTP or stdio, listing upcoming tournaments and single tournament
// details (text/JSON, optionally sorted), looking up a player's latest chess.com
// game, and posting tournament announcements to Discord or Telegram.
package cli
