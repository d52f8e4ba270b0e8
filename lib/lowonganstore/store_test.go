package lowonganstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
	"github.com/absolutepraya/siasisten-bot/lib/timezone"
)

func testSnapshot() lowongan.Snapshot {
	return lowongan.Snapshot{
		// microsecond precision, matching what the file format keeps
		Time: time.Date(2024, 11, 3, 21, 30, 12, 345678000, timezone.Location),
		Entries: []lowongan.Lowongan{
			{
				Title:      "Asisten Dosen A",
				DaftarLink: "https://siasisten.cs.ui.ac.id/daftar/5",
				Stats:      &lowongan.Stats{SlotsFilled: 1, SlotsTotal: 3, ApplicantCount: 7},
			},
			{
				Title:      "Asisten Dosen B",
				DaftarLink: "Link not available",
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	snap := testSnapshot()

	store := NewStore(path)
	err := store.Save(snap)
	require.NoError(t, err)

	// a fresh store must see exactly what was written
	reloaded := NewStore(path).Load()
	require.True(t, reloaded.Time.Equal(snap.Time), "time mismatch: %v != %v", reloaded.Time, snap.Time)
	require.Empty(t, cmp.Diff(snap.Entries, reloaded.Entries))
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data.json"))
	require.True(t, store.Load().IsZero())
	require.True(t, store.Current().IsZero())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	err := os.WriteFile(path, []byte("{not json"), 0644)
	require.NoError(t, err)

	store := NewStore(path)
	require.True(t, store.Load().IsZero())
}

func TestLoadBadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	err := os.WriteFile(path, []byte(`{"time": "yesterday", "data": []}`), 0644)
	require.NoError(t, err)

	store := NewStore(path)
	require.True(t, store.Load().IsZero())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path)

	err := store.Save(testSnapshot())
	require.NoError(t, err)

	err = store.Clear()
	require.NoError(t, err)
	require.True(t, store.Current().IsZero())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// clearing again must stay a no-op
	err = store.Clear()
	require.NoError(t, err)
}

func TestCurrentReflectsSave(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data.json"))
	snap := testSnapshot()

	err := store.Save(snap)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(snap.Entries, store.Current().Entries))
}
