package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the simulation state at one frame.
type Snapshot struct {
	Version int     `msgpack:"version"`
	RunID   string  `msgpack:"run_id"`
	Seed    int64   `msgpack:"seed"`
	Extent  float64 `msgpack:"extent"`

	Tick     int32   `msgpack:"tick"`
	SimTime  float64 `msgpack:"sim_time"`
	Score    int     `msgpack:"score"`
	GameOver bool    `msgpack:"game_over"`

	Entities []EntityState `msgpack:"entities"`

	Bookmark *Bookmark `msgpack:"bookmark,omitempty"`
}

// EntityState holds one entity's simulated state. Zero-valued optional
// fields are omitted from the encoding.
type EntityState struct {
	ID    uint32 `msgpack:"id"`
	Kind  string `msgpack:"kind"`
	Layer string `msgpack:"layer,omitempty"`

	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	VelX  float64 `msgpack:"vel_x,omitempty"`
	VelY  float64 `msgpack:"vel_y,omitempty"`
	Angle float64 `msgpack:"angle,omitempty"`

	Radius    float64 `msgpack:"radius,omitempty"`
	HalfW     float64 `msgpack:"half_w,omitempty"`
	HalfH     float64 `msgpack:"half_h,omitempty"`
	Health    float64 `msgpack:"health,omitempty"`
	HealthMax float64 `msgpack:"health_max,omitempty"`
}

// Encode serializes the snapshot with MessagePack.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Digest hashes the entity states. Two runs with the same seed and inputs
// produce the same digest at the same tick.
func (s *Snapshot) Digest() (uint64, error) {
	data, err := msgpack.Marshal(s.Entities)
	if err != nil {
		return 0, fmt.Errorf("marshal entities: %w", err)
	}
	return xxhash.Sum64(data), nil
}

// DecodeSnapshot parses a MessagePack-encoded snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".msgpack"

	path := filepath.Join(dir, name)

	data, err := snapshot.Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}
