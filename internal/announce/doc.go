// Package announce formats and posts tournament participation announcements.
//
// An Announcement names a participant and the tournament they are joining. The
// Announcer implementations post the formatted text to a Discord webhook, a
// Telegram chat, or (for dry runs) an io.Writer.
package announce
