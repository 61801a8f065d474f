package combat

import "sort"

// TurnOrder returns the living units of both sides, fastest first, using
// current speed. Equal speeds keep battle order, so attackers precede
// defenders and roster position decides within a side.
func TurnOrder(s *State) []*Unit {
	order := make([]*Unit, 0, len(s.units))
	for _, u := range s.units {
		if u.Alive() {
			order = append(order, u)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Speed > order[j].Speed
	})
	return order
}
