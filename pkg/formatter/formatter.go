// Package formatter turns PenFolio records into table rows and short
// human-readable strings.
package formatter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/penfolio/penfolio-cli/pkg/api"
)

// Bold is used for headings in text output.
var Bold = color.New(color.Bold)

// Truncate shortens s to at most n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// RelativeTime renders t relative to now, e.g. "5m ago".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// BlogColumns heads the rows produced by BlogRow.
var BlogColumns = []string{"ID", "Title", "Author", "Likes", "Comments"}

// BlogRow is one table row for a blog.
func BlogRow(b api.Blog) []string {
	return []string{
		b.ID,
		Truncate(b.Title, 40),
		b.Author,
		fmt.Sprintf("%d", b.Likes),
		fmt.Sprintf("%d", len(b.Comments)),
	}
}

// NotificationColumns heads the rows produced by NotificationRow.
var NotificationColumns = []string{"", "Type", "Message", "When"}

// NotificationRow is one table row; unread items are marked with a dot.
func NotificationRow(n api.Notification, now time.Time) []string {
	mark := " "
	if !n.IsRead {
		mark = "●"
	}
	return []string{mark, n.Type, Truncate(n.Message, 60), RelativeTime(n.CreatedAt.Time, now)}
}

// UserColumns heads the rows produced by UserRow.
var UserColumns = []string{"Username", "Description"}

// UserRow is one table row for a user summary.
func UserRow(u api.UserSummary) []string {
	return []string{u.Username, Truncate(u.Description, 50)}
}

// CommentLine renders a comment as "author (♥ n): content".
func CommentLine(c api.Comment) string {
	return fmt.Sprintf("%s (♥ %d): %s", c.Author, c.Likes, c.Content)
}

// MessageLine renders a chat line. mine selects the "you" label.
func MessageLine(sender, text string, mine, failed bool) string {
	who := sender
	if mine {
		who = "you"
	}
	line := fmt.Sprintf("%s: %s", who, text)
	if failed {
		line += " (not delivered)"
	}
	return line
}
