package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
	"github.com/absolutepraya/siasisten-bot/lib/timezone"
)

// Message is a rendered notification. The bot maps it onto a Discord
// embed, the CLI prints it as plain text.
type Message struct {
	Title       string
	Description string
}

// FormatListing renders the whole snapshot.
func FormatListing(snap lowongan.Snapshot) Message {
	if snap.IsZero() {
		return Message{
			Title:       "There's no lowongan data.",
			Description: "Update the data using command `-update`.",
		}
	}
	return Message{
		Title:       fmt.Sprintf("Info Loker (as of %s)", FormatTime(snap.Time)),
		Description: "List lowongan asdos yang buka:\n\n" + formatEntries(snap.Entries),
	}
}

// FormatDiff renders only the entries that appeared since the
// previous snapshot.
func FormatDiff(newEntries []lowongan.Lowongan, t time.Time) Message {
	if len(newEntries) == 0 {
		return Message{
			Title:       fmt.Sprintf("Update (as of %s)", FormatTime(t)),
			Description: "Belum ada lowongan baru.",
		}
	}
	return Message{
		Title:       fmt.Sprintf("Lowongan baru unlocked! (as of %s)", FormatTime(t)),
		Description: formatEntries(newEntries),
	}
}

// Help returns the static usage text.
func Help() Message {
	return Message{
		Title: "Bot Usage",
		Description: "Prefix: `-`\n\n" +
			"Available commands:\n" +
			"**h** : Lists all available commands\n" +
			"**display** : Displays the current lowongan list (might be outdated)\n" +
			"**update** : Updates the lowongan list, displays the difference\n" +
			"**clear** : Clears stored lowongan data\n",
	}
}

func formatEntries(entries []lowongan.Lowongan) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		line := fmt.Sprintf("• **%s**\n[Daftar](%s)", e.Title, e.DaftarLink)
		if e.Stats != nil {
			line += fmt.Sprintf("\n%d/%d diterima, %d pelamar",
				e.Stats.SlotsFilled, e.Stats.SlotsTotal, e.Stats.ApplicantCount)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n\n")
}

// FormatTime renders a capture time like "Jan 2nd 2006, 15:04" in the
// portal's timezone.
func FormatTime(t time.Time) string {
	t = t.In(timezone.Location)
	return fmt.Sprintf(
		"%s %d%s %d, %02d:%02d",
		t.Month().String()[:3],
		t.Day(),
		daySuffix(t.Day()),
		t.Year(),
		t.Hour(),
		t.Minute(),
	)
}

// 11 through 13 always take "th", otherwise the last digit decides
func daySuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
