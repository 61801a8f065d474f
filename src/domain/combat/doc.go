// Package combat resolves team battles.
//
// A battle is deterministic: the same two rosters, ability registry and
// options always yield the same Result. Rounds order living units by current
// speed, each unit hits the weakest living enemy, and passive abilities hook
// into battle start and either side of every action.
package combat
