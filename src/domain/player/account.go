package player

import (
	"strings"
	"time"

	"github.com/bryanwahyu/sandai/src/domain/shared"
)

// InitialRating is the stored rating of a newly registered player.
const InitialRating = 1000

// PlayerAccount is the aggregate root for rating and battle eligibility.
type PlayerAccount struct {
	ID            shared.PlayerID
	DisplayName   string
	Rating        int
	BattlesPlayed int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Suspended     bool
	SuspensionMsg string
}

func NewPlayerAccount(id shared.PlayerID, displayName string, now time.Time) (*PlayerAccount, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = string(id)
	}
	acct := &PlayerAccount{
		ID:          id,
		DisplayName: displayName,
		Rating:      InitialRating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return acct, nil
}

// ApplyRatingDelta records one resolved battle against the account.
func (p *PlayerAccount) ApplyRatingDelta(delta int, now time.Time) {
	p.Rating += delta
	p.BattlesPlayed++
	p.UpdatedAt = now
}

func (p *PlayerAccount) Suspend(message string, now time.Time) {
	p.Suspended = true
	p.SuspensionMsg = message
	p.UpdatedAt = now
}

func (p *PlayerAccount) Reinstate(now time.Time) {
	p.Suspended = false
	p.SuspensionMsg = ""
	p.UpdatedAt = now
}

func (p *PlayerAccount) CanStartBattle(key shared.IdempotencyKey) error {
	if p.Suspended {
		return ErrAccountSuspended
	}
	if err := key.Validate(); err != nil {
		return err
	}
	return nil
}
