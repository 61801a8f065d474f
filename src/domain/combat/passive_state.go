package combat

import "fmt"

// PassiveState is per-unit scratch space owned by the unit's abilities:
// one-shot flags and counters keyed by name. It lives for one battle only.
//
// Reading a key as the wrong kind panics. That only happens when an ability
// and the state it expects disagree, which is a programming error.
type PassiveState struct {
	values map[string]any
}

// Has reports whether name has been written.
func (p *PassiveState) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of entries.
func (p *PassiveState) Len() int {
	return len(p.values)
}

// Flag returns the named flag, false when unset.
func (p *PassiveState) Flag(name string) bool {
	v, ok := p.values[name]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Sprintf("combat: passive state %q holds %T, want bool", name, v))
	}
	return b
}

func (p *PassiveState) SetFlag(name string, value bool) {
	p.set(name, value)
}

// Counter returns the named counter and whether it was set.
func (p *PassiveState) Counter(name string) (int, bool) {
	v, ok := p.values[name]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	if !ok {
		panic(fmt.Sprintf("combat: passive state %q holds %T, want int", name, v))
	}
	return n, true
}

// MustCounter is Counter for entries an earlier hook is required to have written.
func (p *PassiveState) MustCounter(name string) int {
	n, ok := p.Counter(name)
	if !ok {
		panic(fmt.Sprintf("combat: passive state %q was never initialized", name))
	}
	return n
}

func (p *PassiveState) SetCounter(name string, value int) {
	p.set(name, value)
}

// Delete removes name if present.
func (p *PassiveState) Delete(name string) {
	delete(p.values, name)
}

func (p *PassiveState) set(name string, value any) {
	if p.values == nil {
		p.values = make(map[string]any, 4)
	}
	p.values[name] = value
}

func (p *PassiveState) clear() {
	p.values = nil
}
