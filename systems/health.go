package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voidswarm/components"
)

// HealthMode selects how a HealthChange is applied.
type HealthMode uint8

const (
	HealthDamage HealthMode = iota // subtract Value; runout at or below zero
	HealthHeal                     // add Value, capped at Max
	HealthSet                      // assign Value; runout at or below zero
)

// HealthChange is a queued request to modify an entity's health.
type HealthChange struct {
	Entity ecs.Entity
	Mode   HealthMode
	Value  float64
}

// HealthSystem applies health intents and recharges shields.
type HealthSystem struct {
	world     *ecs.World
	healthMap *ecs.Map[components.Health]
	shieldMap *ecs.Map[components.Shield]
	filter    *ecs.Filter2[components.Health, components.Shield]

	rechargeDelay float64
	rechargeRate  float64
}

// NewHealthSystem creates a health system. Shielded entities start healing
// at rechargeRate per second once rechargeDelay seconds pass without damage.
func NewHealthSystem(w *ecs.World, rechargeDelay, rechargeRate float64) *HealthSystem {
	return &HealthSystem{
		world:         w,
		healthMap:     ecs.NewMap[components.Health](w),
		shieldMap:     ecs.NewMap[components.Shield](w),
		filter:        ecs.NewFilter2[components.Health, components.Shield](w),
		rechargeDelay: rechargeDelay,
		rechargeRate:  rechargeRate,
	}
}

// Apply processes changes in order and returns the entities whose health
// ran out. An entity appears at most once even if several changes drain it.
// now is the simulation time, recorded on shields when damage lands.
func (s *HealthSystem) Apply(changes []HealthChange, now float64) []ecs.Entity {
	var runouts []ecs.Entity
	for _, c := range changes {
		if !s.world.Alive(c.Entity) || !s.healthMap.Has(c.Entity) {
			continue
		}
		h := s.healthMap.Get(c.Entity)
		wasAlive := h.Value > 0

		switch c.Mode {
		case HealthDamage:
			h.Value -= c.Value
			if s.shieldMap.Has(c.Entity) {
				s.shieldMap.Get(c.Entity).LastDamaged = now
			}
		case HealthHeal:
			h.Value = min(h.Value+c.Value, h.Max)
		case HealthSet:
			h.Value = min(c.Value, h.Max)
		}

		if h.Value <= 0 && wasAlive {
			runouts = append(runouts, c.Entity)
		}
	}
	return runouts
}

// Recharge returns heal intents for shielded entities that have not been
// damaged recently and are below full health.
func (s *HealthSystem) Recharge(now, dt float64) []HealthChange {
	var out []HealthChange
	query := s.filter.Query()
	for query.Next() {
		h, shield := query.Get()
		if h.Value <= 0 || h.Value >= h.Max {
			continue
		}
		if now-shield.LastDamaged < s.rechargeDelay {
			continue
		}
		out = append(out, HealthChange{Entity: query.Entity(), Mode: HealthHeal, Value: s.rechargeRate * dt})
	}
	return out
}
