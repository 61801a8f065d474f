package combat

import "go.uber.org/zap"

// DefaultTurnCap bounds a battle. Reaching it without a winner is a draw.
const DefaultTurnCap = 100

// Phase is the battle loop state.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseRoundInProgress
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseRoundInProgress:
		return "round_in_progress"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type options struct {
	turnCap  int
	registry *Registry
	logger   *zap.Logger
}

// Option configures Simulate.
type Option func(*options)

// WithTurnCap overrides DefaultTurnCap. Values below 1 are ignored.
func WithTurnCap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.turnCap = n
		}
	}
}

// WithRegistry replaces the built-in ability registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLogger traces rounds and actions at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Simulate runs a battle to completion and returns its result. Identical
// rosters, registry and options always produce an identical result. The only
// error is an *InvalidRosterError, returned before any round is played.
func Simulate(attacker, defender Roster, opts ...Option) (*Result, error) {
	o := options{turnCap: DefaultTurnCap, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	b := &battle{phase: PhaseInitializing, turnCap: o.turnCap}
	state, err := NewState(attacker, defender, o.registry)
	if err != nil {
		return nil, err
	}
	state.logger = o.logger
	b.state = state
	b.start()
	for b.phase == PhaseRoundInProgress {
		b.step()
	}
	return b.result, nil
}

type battle struct {
	phase   Phase
	turnCap int
	state   *State
	result  *Result
}

func (b *battle) start() {
	for _, u := range b.state.units {
		b.state.dispatch(hookBattleStart, u)
	}
	b.phase = PhaseRoundInProgress
}

// step checks for a terminal condition and otherwise plays one round.
func (b *battle) step() {
	s := b.state
	if outcome, done := terminal(s); done {
		b.resolve(outcome)
		return
	}
	if s.round >= b.turnCap {
		s.logger.Debug("turn cap reached", zap.Int("round", s.round))
		b.resolve(OutcomeDraw)
		return
	}
	s.round++
	for _, u := range TurnOrder(s) {
		if !s.resolveAction(u) {
			break
		}
	}
	s.logger.Debug("round complete",
		zap.Int("round", s.round),
		zap.Int("attackers_alive", len(s.Alive(SideAttacker))),
		zap.Int("defenders_alive", len(s.Alive(SideDefender))),
	)
}

func (b *battle) resolve(outcome Outcome) {
	b.result = newResult(b.state, outcome)
	for _, u := range b.state.units {
		u.Passive.clear()
	}
	b.phase = PhaseResolved
	b.state.logger.Debug("battle resolved",
		zap.String("outcome", string(outcome)),
		zap.Int("turns", b.result.TotalTurns),
	)
}

func terminal(s *State) (Outcome, bool) {
	attackers := len(s.Alive(SideAttacker))
	defenders := len(s.Alive(SideDefender))
	switch {
	case attackers == 0 && defenders == 0:
		return OutcomeDraw, true
	case defenders == 0:
		return OutcomeAttackerWin, true
	case attackers == 0:
		return OutcomeDefenderWin, true
	}
	return "", false
}
