package combat

import (
	"fmt"
	"sort"
)

// Ability is a passive modifier attached to a unit at roster load. Hooks
// receive the battle state and the key of the unit that owns the ability;
// they are only invoked while that unit is alive.
type Ability interface {
	Name() string
	// AppliesTo is evaluated once per unit at roster load.
	AppliesTo(u *Unit) bool
	// OnBattleStart runs once before round 1.
	OnBattleStart(s *State, key UnitKey)
	// BeforeUnitActs runs right before the owner resolves its action.
	BeforeUnitActs(s *State, key UnitKey)
	// AfterUnitActs runs right after the owner's action resolves, hit or not.
	AfterUnitActs(s *State, key UnitKey)
}

// BaseAbility provides no-op hooks for abilities to embed.
type BaseAbility struct{}

func (BaseAbility) OnBattleStart(*State, UnitKey)  {}
func (BaseAbility) BeforeUnitActs(*State, UnitKey) {}
func (BaseAbility) AfterUnitActs(*State, UnitKey)  {}

// Constructor builds a fresh ability instance for one unit.
type Constructor func() Ability

// Registry maps passive keys to ability constructors. Innate abilities are
// offered to every unit and attach wherever AppliesTo accepts the unit.
type Registry struct {
	keyed  map[string]Constructor
	innate []string
}

func NewRegistry() *Registry {
	return &Registry{keyed: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry holding the built-in abilities.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KeyOverclockedSystems, func() Ability { return OverclockedSystems{} })
	r.MustRegister(KeyRegenerativeTissue, func() Ability { return RegenerativeTissue{} })
	r.MustRegister(KeyArcaneSurge, func() Ability { return ArcaneSurge{} })
	r.MustRegisterInnate(KeyMythicPresence, func() Ability { return MythicPresence{} })
	return r
}

// Register adds a keyed ability. Keys are unique.
func (r *Registry) Register(key string, c Constructor) error {
	if key == "" {
		return fmt.Errorf("register ability: key is required")
	}
	if c == nil {
		return fmt.Errorf("register ability %q: constructor is required", key)
	}
	if _, exists := r.keyed[key]; exists {
		return fmt.Errorf("register ability %q: already registered", key)
	}
	r.keyed[key] = c
	return nil
}

// RegisterInnate adds an ability that is also checked against units whose
// passive key names something else.
func (r *Registry) RegisterInnate(key string, c Constructor) error {
	if err := r.Register(key, c); err != nil {
		return err
	}
	r.innate = append(r.innate, key)
	return nil
}

func (r *Registry) MustRegister(key string, c Constructor) {
	if err := r.Register(key, c); err != nil {
		panic(err)
	}
}

func (r *Registry) MustRegisterInnate(key string, c Constructor) {
	if err := r.RegisterInnate(key, c); err != nil {
		panic(err)
	}
}

// Keys lists registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.keyed))
	for k := range r.keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the abilities that attach to u: its keyed ability first,
// then eligible innate abilities in registration order. An ability is never
// attached twice.
func (r *Registry) Resolve(u *Unit) ([]Ability, error) {
	var out []Ability
	attached := make(map[string]struct{}, 2)
	if u.PassiveKey != "" {
		c, ok := r.keyed[u.PassiveKey]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, u.PassiveKey)
		}
		a := c()
		if a.AppliesTo(u) {
			out = append(out, a)
			attached[a.Name()] = struct{}{}
		}
	}
	for _, key := range r.innate {
		a := r.keyed[key]()
		if _, dup := attached[a.Name()]; dup {
			continue
		}
		if a.AppliesTo(u) {
			out = append(out, a)
			attached[a.Name()] = struct{}{}
		}
	}
	return out, nil
}
