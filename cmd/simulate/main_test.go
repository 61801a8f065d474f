package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/sandai/src/domain/combat"
)

const duelYAML = `attacker:
  owner_id: alice
  units:
    - id: knight
      name: Knight
      rarity: epic
      stats: {max_hp: 100, attack: 50, defense: 10, speed: 10}
defender:
  owner_id: bob
  units:
    - id: slime
      name: Slime
      rarity: common
      stats: {max_hp: 20, attack: 5, defense: 0, speed: 1}
`

func writeRosters(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rosters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunPrintsResult(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-rosters", writeRosters(t, duelYAML)}, &stdout))

	var got struct {
		Outcome     combat.Outcome `json:"outcome"`
		WinnerID    string         `json:"winner_id"`
		TotalTurns  int            `json:"total_turns"`
		RatingDelta int            `json:"rating_delta"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, combat.OutcomeAttackerWin, got.Outcome)
	assert.Equal(t, "alice", got.WinnerID)
	assert.Equal(t, 1, got.TotalTurns)
	assert.Greater(t, got.RatingDelta, 0)
}

func TestRunWritesOutFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "result.json")
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-rosters", writeRosters(t, duelYAML), "-out", out, "-turn-cap", "5"}, &stdout))
	assert.Zero(t, stdout.Len())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"outcome": "attacker_win"`)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		is   error
	}{
		{name: "missing flag", args: func(t *testing.T) []string { return nil }},
		{name: "bad yaml", args: func(t *testing.T) []string { return []string{"-rosters", writeRosters(t, "attacker: [")} }},
		{
			name: "empty defender",
			args: func(t *testing.T) []string {
				return []string{"-rosters", writeRosters(t, "attacker:\n  owner_id: alice\n  units: []\n")}
			},
			is: combat.ErrInvalidRoster,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args(t), &bytes.Buffer{})
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
