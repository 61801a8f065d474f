package leaderboard_test

import (
	"testing"

	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/domain/roster"
)

func TestRatingDelta(t *testing.T) {
	tests := []struct {
		name   string
		turns  int
		powerA int
		powerB int
		want   int
	}{
		{name: "balanced quick battle", turns: 30, powerA: 200, powerB: 200, want: 19},
		{name: "lopsided long battle", turns: 60, powerA: 300, powerB: 100, want: 5},
		{name: "instant balanced", turns: 0, powerA: 50, powerB: 50, want: 25},
		{name: "no power counts as balanced", turns: 50, powerA: 0, powerB: 0, want: 15},
		{name: "half to even rounds down", turns: 50, powerA: 225, powerB: 175, want: 12},
		{name: "half to even rounds up", turns: 45, powerA: 225, powerB: 175, want: 14},
		{name: "symmetric", turns: 40, powerA: 100, powerB: 300, want: 7},
		{name: "symmetric reversed", turns: 40, powerA: 300, powerB: 100, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leaderboard.RatingDelta(tt.turns, tt.powerA, tt.powerB)
			if got != tt.want {
				t.Errorf("RatingDelta(%d, %d, %d) = %d, want %d", tt.turns, tt.powerA, tt.powerB, got, tt.want)
			}
		})
	}
}

func TestTeamPower(t *testing.T) {
	units := []roster.Unit{
		{ID: "u1", Name: "Knight", Stats: roster.Stats{MaxHP: 30, Attack: 10, Defense: 2, Speed: 5}},
		{ID: "u2", Name: "Goblin", Stats: roster.Stats{MaxHP: 20, Attack: 6, Defense: 3, Speed: 4}},
	}
	if got := leaderboard.TeamPower(units); got != 80 {
		t.Errorf("TeamPower() = %d, want 80", got)
	}
	if got := leaderboard.TeamPower(nil); got != 0 {
		t.Errorf("TeamPower(nil) = %d, want 0", got)
	}
}

func TestScoreSubmissionValidate(t *testing.T) {
	tests := []struct {
		name       string
		submission leaderboard.ScoreSubmission
		wantErr    bool
	}{
		{name: "valid", submission: leaderboard.ScoreSubmission{PlayerID: "p1", SeasonID: "s1", IdempotencyKey: "k1"}},
		{name: "missing player", submission: leaderboard.ScoreSubmission{SeasonID: "s1", IdempotencyKey: "k1"}, wantErr: true},
		{name: "missing season", submission: leaderboard.ScoreSubmission{PlayerID: "p1", IdempotencyKey: "k1"}, wantErr: true},
		{name: "missing key", submission: leaderboard.ScoreSubmission{PlayerID: "p1", SeasonID: "s1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.submission.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
