// Package lowongan holds the vacancy-posting data model shared by the
// scraper, the store and the watcher.
package lowongan

import "time"

// Stats carries the slot occupancy columns of a listing row. The
// portal renders them as plain numbers, rows where they fail to parse
// simply have no stats.
type Stats struct {
	SlotsFilled    int `json:"slots_filled"`
	SlotsTotal     int `json:"slots_total"`
	ApplicantCount int `json:"applicant_count"`
}

// Lowongan is a single vacancy posting. Identity is the exact title
// string, two postings sharing a title are indistinguishable.
type Lowongan struct {
	Title      string `json:"title"`
	DaftarLink string `json:"daftar_link"`
	Stats      *Stats `json:"stats,omitempty"`
}

// Snapshot is a timestamped full capture of the listing. It is
// replaced wholesale on every successful update, never merged.
type Snapshot struct {
	Time    time.Time
	Entries []Lowongan
}

func (s Snapshot) IsZero() bool {
	return s.Time.IsZero() && len(s.Entries) == 0
}

// Diff returns the entries of current whose titles do not appear in
// previous, preserving current's order. With no previous entries,
// every current entry is new.
func Diff(previous, current []Lowongan) []Lowongan {
	if len(previous) == 0 {
		return append([]Lowongan(nil), current...)
	}

	seen := make(map[string]struct{}, len(previous))
	for _, e := range previous {
		seen[e.Title] = struct{}{}
	}

	var fresh []Lowongan
	for _, e := range current {
		if _, ok := seen[e.Title]; !ok {
			fresh = append(fresh, e)
		}
	}
	return fresh
}
