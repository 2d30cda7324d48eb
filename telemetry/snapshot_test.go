package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		RunID:   "3f1c1f0e-2d8b-4f7e-9a55-0c0f3cbd8a11",
		Seed:    42,
		Extent:  10000,
		Tick:    1000,
		SimTime: 16.6,
		Score:   12,
		Entities: []EntityState{
			{ID: 1, Kind: "ship", Layer: "Ship", X: 5000, Y: 5000, VelX: 3, Angle: 0.5, Radius: 15, Health: 80, HealthMax: 100},
			{ID: 2, Kind: "alien", Layer: "Aliens", X: 150, Y: 250, VelX: 60, VelY: -80, Radius: 15, Health: 1, HealthMax: 1},
			{ID: 3, Kind: "wall", Layer: "Walls", X: 25, Y: 25, HalfW: 25, HalfH: 25},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkSwarmCollapse,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	snapshot := testSnapshot()

	path, err := SaveSnapshot(snapshot, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "snapshot_1000_swarm_collapse.msgpack", filepath.Base(path))

	_, err = os.Stat(path)
	require.NoError(t, err, "snapshot file not created")

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, snapshot.RunID, loaded.RunID)
	assert.Equal(t, snapshot.Seed, loaded.Seed)
	assert.Equal(t, snapshot.Tick, loaded.Tick)
	assert.Equal(t, snapshot.Score, loaded.Score)
	assert.Equal(t, snapshot.Entities, loaded.Entities)
	require.NotNil(t, loaded.Bookmark)
	assert.Equal(t, BookmarkSwarmCollapse, loaded.Bookmark.Type)
}

func TestSnapshotFilenameWithoutBookmark(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Bookmark = nil

	path, err := SaveSnapshot(snapshot, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "snapshot_1000.msgpack", filepath.Base(path))
}

func TestSnapshotDigest(t *testing.T) {
	a, b := testSnapshot(), testSnapshot()

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db, "identical entity states must hash equally")

	// Metadata is not part of the digest.
	b.RunID = "other"
	b.Tick = 5
	db, err = b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db)

	b.Entities[1].X += 0.001
	db, err = b.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, da, db, "a moved entity must change the digest")
}

func TestDecodeSnapshotRejectsUnknownVersion(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Version = SnapshotVersion + 1
	data, err := snapshot.Encode()
	require.NoError(t, err)

	_, err = DecodeSnapshot(data)
	assert.Error(t, err)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.msgpack"))
	assert.Error(t, err)
}
