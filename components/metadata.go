package components

// String returns the display name for a Layer.
func (l Layer) String() string {
	names := LayerNames()
	if int(l) < len(names) {
		return names[l]
	}
	return "Unknown"
}

// LayerNames returns the display names for all collision layers.
// The order matches the Layer constants.
func LayerNames() []string {
	return []string{"Projectiles", "Ship", "Aliens", "HealthPacks", "Walls"}
}
