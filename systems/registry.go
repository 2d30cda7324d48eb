package systems

// SystemInfo describes a simulation system for perf reports.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "physics", "logic")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	// Fixed-step physics phase, in execution order
	r.Register(SystemInfo{ID: "quadtree", Name: "Quadtree", Description: "Rebuilds the spatial index from trackable entities", Category: "physics"})
	r.Register(SystemInfo{ID: "impulses", Name: "Impulses", Description: "Applies queued momentum changes", Category: "physics"})
	r.Register(SystemInfo{ID: "integrate", Name: "Integrate", Description: "Advances positions and velocities", Category: "physics"})
	r.Register(SystemInfo{ID: "detect", Name: "Detect", Description: "Finds overlapping colliders", Category: "physics"})
	r.Register(SystemInfo{ID: "resolve", Name: "Resolve", Description: "Pushes circles out of walls", Category: "physics"})

	// Variable-step logic phase
	r.Register(SystemInfo{ID: "flocking", Name: "Flocking", Description: "Steers aliens", Category: "logic"})
	r.Register(SystemInfo{ID: "gameplay", Name: "Gameplay", Description: "Turns collisions into damage, pickups and score", Category: "logic"})
	r.Register(SystemInfo{ID: "health", Name: "Health", Description: "Applies damage, heals and shield recharge", Category: "logic"})

	// Cleanup
	r.Register(SystemInfo{ID: "despawn", Name: "Despawn", Description: "Removes queued entities", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Records window statistics", Category: "core"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
