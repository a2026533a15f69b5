package blight

import (
	"gwan-server/rules"
)

// Blight ids in registration order.
const (
	IDFool      = "fool"
	IDMagician  = "magician"
	IDLovers    = "lovers"
	IDDeath     = "death"
	IDWheel     = "wheel_of_fortune"
	IDHangedMan = "hanged_man"
	IDEmperor   = "emperor"
	IDDevil     = "devil"
)

// Registry holds all registered Blight effects indexed by their ID.
type Registry struct {
	blights map[string]rules.BlightEffect
	order   []string // registration order for deterministic BlightIDs()
}

// Ensure *Registry implements rules.BlightProvider at compile time.
var _ rules.BlightProvider = (*Registry)(nil)

// NewRegistry creates a new empty Blight registry.
func NewRegistry() *Registry {
	return &Registry{
		blights: make(map[string]rules.BlightEffect),
	}
}

// Register adds a Blight effect to the registry.
func (r *Registry) Register(b rules.BlightEffect) {
	id := b.ID()
	if _, exists := r.blights[id]; !exists {
		r.order = append(r.order, id)
	}
	r.blights[id] = b
}

// Blight returns the effect registered under id.
func (r *Registry) Blight(id string) (rules.BlightEffect, bool) {
	b, ok := r.blights[id]
	return b, ok
}

// BlightIDs returns every registered id in registration order.
func (r *Registry) BlightIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Offer lists the Blight effects a player may still select, skipping the ids in exclude.
func (r *Registry) Offer(exclude ...string) []rules.BlightEffect {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	out := make([]rules.BlightEffect, 0, len(r.order))
	for _, id := range r.order {
		if !skip[id] {
			out = append(out, r.blights[id])
		}
	}
	return out
}

// RegisterAll registers the eight built-in Blight effects.
func RegisterAll(r *Registry) {
	r.Register(Fool{})
	r.Register(Magician{})
	r.Register(Lovers{})
	r.Register(Death{})
	r.Register(WheelOfFortune{})
	r.Register(HangedMan{})
	r.Register(Emperor{})
	r.Register(Devil{})
}

// NewDefaultRegistry returns a registry with every built-in Blight registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterAll(r)
	return r
}
