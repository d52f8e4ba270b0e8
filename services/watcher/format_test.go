package watcher

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
	"github.com/absolutepraya/siasisten-bot/lib/timezone"
)

func TestDaySuffix(t *testing.T) {
	cases := map[int]string{
		1:  "st",
		2:  "nd",
		3:  "rd",
		4:  "th",
		11: "th",
		12: "th",
		13: "th",
		21: "st",
		22: "nd",
		23: "rd",
		31: "st",
	}
	for day, want := range cases {
		require.Equal(t, want, daySuffix(day), "day %d", day)
	}
}

func TestFormatTime(t *testing.T) {
	captured := time.Date(2024, 11, 3, 21, 30, 0, 0, timezone.Location)
	require.Equal(t, "Nov 3rd 2024, 21:30", FormatTime(captured))
}

func TestFormatListingEmpty(t *testing.T) {
	msg := FormatListing(lowongan.Snapshot{})
	require.Contains(t, msg.Title, "no lowongan data")
	require.Contains(t, msg.Description, "-update")
}

func TestFormatListingBullets(t *testing.T) {
	snap := lowongan.Snapshot{
		Time: time.Date(2024, 11, 3, 21, 30, 0, 0, timezone.Location),
		Entries: []lowongan.Lowongan{
			{Title: "A", DaftarLink: "https://siasisten.cs.ui.ac.id/daftar/1"},
			{Title: "B", DaftarLink: "https://siasisten.cs.ui.ac.id/daftar/2"},
			{Title: "C", DaftarLink: "Link not available"},
		},
	}
	msg := FormatListing(snap)
	require.Contains(t, msg.Title, "Nov 3rd 2024, 21:30")
	require.Equal(t, 3, strings.Count(msg.Description, "• "))
}

func TestFormatListingStats(t *testing.T) {
	snap := lowongan.Snapshot{
		Time: timezone.Now(),
		Entries: []lowongan.Lowongan{
			{
				Title:      "A",
				DaftarLink: "https://siasisten.cs.ui.ac.id/daftar/1",
				Stats:      &lowongan.Stats{SlotsFilled: 1, SlotsTotal: 3, ApplicantCount: 7},
			},
		},
	}
	msg := FormatListing(snap)
	require.Contains(t, msg.Description, "1/3 diterima, 7 pelamar")
}

func TestFormatDiffEmpty(t *testing.T) {
	msg := FormatDiff(nil, timezone.Now())
	require.Contains(t, msg.Description, "Belum ada lowongan baru.")
}

func TestFormatDiffNewEntries(t *testing.T) {
	fresh := []lowongan.Lowongan{
		{Title: "A", DaftarLink: "https://siasisten.cs.ui.ac.id/daftar/1"},
	}
	msg := FormatDiff(fresh, timezone.Now())
	require.Contains(t, msg.Title, "Lowongan baru unlocked!")
	require.Equal(t, 1, strings.Count(msg.Description, "• "))
}

func TestHelpListsCommands(t *testing.T) {
	msg := Help()
	for _, command := range []string{"display", "update", "clear", "h"} {
		require.Contains(t, msg.Description, command)
	}
}
