package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/voidswarm/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// A nil manager swallows writes.
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WriteBookmark(Bookmark{}))
	assert.NoError(t, om.Close())
	assert.Empty(t, om.Dir())
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteConfig(config.Default()))
	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 600, Aliens: 1900, Score: 3}))
	require.NoError(t, om.WriteTelemetry(WindowStats{
		WindowEndTick: 1200, Aliens: 1850, Score: 7,
		Despawns: DespawnCounts{ProjectileHit: 4, HealthRunout: 4, Boundary: 1},
	}))
	require.NoError(t, om.WriteBookmark(Bookmark{Type: BookmarkShipCritical, Tick: 1200, Description: "low"}))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "one header plus one row per window")
	assert.True(t, strings.HasPrefix(lines[0], "window_end,sim_time,aliens"))
	assert.True(t, strings.HasPrefix(lines[2], "1200,"))

	data, err = os.ReadFile(filepath.Join(dir, "despawns.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "window_end,requested,projectile_hit,rammed,picked_up,health_runout,expired,boundary,other", lines[0])
	assert.Equal(t, "600,0,0,0,0,0,0,0,0", lines[1])
	assert.Equal(t, "1200,0,4,0,0,4,0,1,0", lines[2], "window end is taken from the stats row")

	data, err = os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ship_critical,1200,low")

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}
