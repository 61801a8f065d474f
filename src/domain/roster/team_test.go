package roster_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bryanwahyu/sandai/src/domain/roster"
	"github.com/bryanwahyu/sandai/src/domain/shared"
)

func unit(id string) roster.Unit {
	return roster.Unit{
		ID:     shared.UnitID(id),
		Name:   "Unit " + id,
		Rarity: roster.RarityRare,
		Stats:  roster.Stats{MaxHP: 10, Attack: 3, Defense: 1, Speed: 2},
	}
}

func TestNewTeam(t *testing.T) {
	now := time.Now().UTC()
	six := make([]roster.Unit, 6)
	for i := range six {
		six[i] = unit(fmt.Sprintf("u%d", i))
	}
	badStats := unit("u1")
	badStats.Stats.Defense = -1
	badRarity := unit("u1")
	badRarity.Rarity = "mythic"
	noName := unit("u1")
	noName.Name = ""

	tests := []struct {
		name    string
		id      shared.TeamID
		owner   shared.PlayerID
		units   []roster.Unit
		wantErr error
		invalid bool
	}{
		{name: "valid", id: "t1", owner: "p1", units: []roster.Unit{unit("u1"), unit("u2")}},
		{name: "missing id", id: "", owner: "p1", units: []roster.Unit{unit("u1")}, invalid: true},
		{name: "missing owner", id: "t1", owner: "", units: []roster.Unit{unit("u1")}, invalid: true},
		{name: "empty", id: "t1", owner: "p1", wantErr: roster.ErrTeamEmpty},
		{name: "too large", id: "t1", owner: "p1", units: six, wantErr: roster.ErrTeamTooLarge},
		{name: "duplicate unit", id: "t1", owner: "p1", units: []roster.Unit{unit("u1"), unit("u1")}, wantErr: roster.ErrDuplicateUnit},
		{name: "negative stat", id: "t1", owner: "p1", units: []roster.Unit{badStats}, wantErr: roster.ErrInvalidStats},
		{name: "unknown rarity", id: "t1", owner: "p1", units: []roster.Unit{badRarity}, wantErr: roster.ErrUnknownRarity},
		{name: "missing unit name", id: "t1", owner: "p1", units: []roster.Unit{noName}, wantErr: roster.ErrUnitNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team, err := roster.NewTeam(tt.id, tt.owner, "", tt.units, now)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewTeam() error = %v, want %v", err, tt.wantErr)
				}
			case tt.invalid:
				if err == nil {
					t.Fatal("NewTeam() expected error")
				}
			default:
				if err != nil {
					t.Fatalf("NewTeam() unexpected error: %v", err)
				}
				if team.Name != string(tt.id) {
					t.Errorf("Name = %q, want %q", team.Name, tt.id)
				}
				if len(team.Units) != len(tt.units) {
					t.Errorf("Units len = %d, want %d", len(team.Units), len(tt.units))
				}
			}
		})
	}
}

func TestNewTeamCopiesUnits(t *testing.T) {
	units := []roster.Unit{unit("u1")}
	team, err := roster.NewTeam("t1", "p1", "Vanguard", units, time.Now())
	if err != nil {
		t.Fatalf("NewTeam() unexpected error: %v", err)
	}
	units[0].Name = "changed"
	if team.Units[0].Name != "Unit u1" {
		t.Errorf("team unit changed with input slice: %q", team.Units[0].Name)
	}
	if team.Name != "Vanguard" {
		t.Errorf("Name = %q, want Vanguard", team.Name)
	}
}
