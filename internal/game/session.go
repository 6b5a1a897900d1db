package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

type ending int

const (
	endKeep ending = iota
	endDestroy
	endArchive
)

// env holds the collaborators shared by every session of a registry.
type env struct {
	content   ContentStore
	passwords Passwords
	store     Persistence
	rules     Rules
	log       *zap.Logger
	release   func(s *Session)
}

// Session owns one game. Every operation holds mu from validation to event
// computation, so actions on the same game never interleave while different
// games proceed in parallel.
type Session struct {
	mu     sync.Mutex
	id     string
	game   *Game
	closed bool
	rng    *rand.Rand
	env    *env
	log    *zap.Logger
}

func newSession(g *Game, rng *rand.Rand, e *env) *Session {
	return &Session{
		id:   g.ID,
		game: g,
		rng:  rng,
		env:  e,
		log:  e.log.With(zap.String("game_id", g.ID)),
	}
}

// ID returns the game id served by this session.
func (s *Session) ID() string {
	return s.id
}

// tx is the working copy one action mutates. It is committed only when the
// action returns without error.
type tx struct {
	ctx      context.Context
	g        *Game
	rng      *rand.Rand
	rules    Rules
	env      *env
	ev       events
	end      ending
	readOnly bool
}

func (s *Session) apply(ctx context.Context, action, userID string, fn func(t *tx) error) ([]Outbound, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NotFound("game")
	}

	t := &tx{ctx: ctx, g: s.game.clone(), rng: s.rng, rules: s.env.rules, env: s.env}
	if err := s.run(action, userID, t, fn); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if t.readOnly {
		s.mu.Unlock()
		return t.ev.out, nil
	}

	s.game = t.g
	switch t.end {
	case endKeep:
		if err := s.env.store.Save(ctx, s.game); err != nil {
			s.log.Warn("persist snapshot", zap.String("action", action), zap.Error(err))
		}
	case endDestroy:
		s.closed = true
		if err := s.env.store.Delete(ctx, s.id); err != nil {
			s.log.Warn("delete snapshot", zap.Error(err))
		}
	case endArchive:
		s.closed = true
		if err := s.env.store.Archive(ctx, s.game); err != nil {
			s.log.Warn("archive snapshot", zap.Error(err))
		}
	}
	closed := s.closed
	s.mu.Unlock()

	if closed {
		s.log.Info("session closed", zap.String("action", action), zap.String("user_id", userID))
		s.env.release(s)
	}
	return t.ev.out, nil
}

func (s *Session) run(action, userID string, t *tx, fn func(t *tx) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("action aborted",
				zap.String("action", action),
				zap.String("user_id", userID),
				zap.Any("panic", r),
			)
			err = internal(fmt.Sprintf("%s failed", action))
		}
	}()
	if err = fn(t); err != nil {
		s.log.Debug("action rejected",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	return err
}

// close marks the session dead after any in-flight action has finished.
func (s *Session) close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if err := s.env.store.Delete(ctx, s.id); err != nil {
		s.log.Warn("delete snapshot", zap.Error(err))
	}
}

// View returns the current public state.
func (s *Session) View() PublicView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return publicView(s.game)
}

// Summary returns the lobby listing projection.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.game)
}

// Game returns a deep copy of the current state.
func (s *Session) Game() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.clone()
}

func (t *tx) player(userID string) (*Player, error) {
	return t.g.Player(userID)
}

func (t *tx) requirePhase(want Phase, action string) error {
	if t.g.Phase != want {
		return Validation(fmt.Sprintf("%s is only allowed during %s, game is in %s", action, want, t.g.Phase))
	}
	return nil
}

func (t *tx) requireHost(p *Player, action string) error {
	if !p.IsHost {
		return Validation(fmt.Sprintf("only the host can %s", action))
	}
	return nil
}

func (t *tx) reply(userID, name string, payload any) {
	t.ev.to([]string{userID}, name, payload)
}

// transition moves the game along the table and runs the entry effects of the
// new phase.
func (t *tx) transition(trigger Trigger) error {
	from := t.g.Phase
	to, err := Next(from, trigger)
	if err != nil {
		return err
	}
	t.g.Phase = to

	switch to {
	case PhaseJoiningTeams:
		for _, team := range t.g.Teams {
			team.PlayerIDs = []string{}
		}
		for _, p := range t.g.Players {
			p.Team = 0
		}
	case PhasePhase1:
		if from == PhaseSetupComplete {
			t.g.Round = 1
			t.g.FirstTeam = 1
		} else {
			t.g.Round++
			t.g.FirstTeam = 3 - t.g.FirstTeam
			for _, team := range t.g.Teams {
				team.addGold(t.rules.RoundGoldIncome)
			}
		}
		t.g.Daybreak = map[string][]int{}
	case PhaseGameFinished:
		t.g.Active = false
		t.end = endArchive
	}

	t.ev.broadcast(t.g, "", EventPhaseChanged, PhaseChange{From: from, To: to, Round: t.g.Round})

	switch to {
	case PhasePhase1:
		t.announceTurn()
	case PhaseDrawingNewHand:
		t.refillHands()
	case PhaseGameFinished:
		t.ev.broadcast(t.g, "", EventGameFinished, nil)
	}
	return nil
}

func (t *tx) announceTurn() {
	turn := Turn{Round: t.g.Round, Phase: t.g.Phase, Team: t.g.FirstTeam}
	for _, team := range t.g.Teams {
		if len(team.PlayerIDs) == 0 {
			continue
		}
		name := EventWaitingTurn
		if team.Number == t.g.FirstTeam {
			name = EventStartTurn
		}
		t.ev.to(append([]string{}, team.PlayerIDs...), name, turn)
	}
}

func (t *tx) refillHands() {
	for _, p := range t.g.orderedPlayers() {
		if refill(p, t.rules.StartingHandSize, t.rules.ReshuffleDiscard, t.rng) {
			t.reply(p.UserID, EventDeckExhausted, handOf(p))
		}
		t.ev.private(p)
	}
}

func (t *tx) endReached() bool {
	if t.g.Round >= t.rules.MaxRounds {
		return true
	}
	for _, team := range t.g.Teams {
		if team.Gold >= team.MaxGold() {
			return true
		}
	}
	return false
}

// settle fires the system-driven advances whose condition may have become
// true after a roster change.
func (t *tx) settle() error {
	switch t.g.Phase {
	case PhaseSageSelection:
		if t.g.every(func(p *Player) bool { return p.Sage != "" }) {
			t.ev.broadcast(t.g, "", EventAllSagesSelected, nil)
			return t.transition(TriggerAllSagesSelected)
		}
	case PhaseJoiningTeams:
		if t.g.every(func(p *Player) bool { return p.Team != 0 }) {
			t.ev.broadcast(t.g, "", EventAllTeamsJoined, nil)
			return t.transition(TriggerAllTeamsJoined)
		}
	case PhaseWarriorSelection:
		if t.g.every(func(p *Player) bool { return p.SetupComplete }) {
			t.ev.broadcast(t.g, "", EventAllPlayersSetup, nil)
			if err := t.transition(TriggerAllWarriorsChosen); err != nil {
				return err
			}
			return t.transition(TriggerBeginPlay)
		}
	}
	return nil
}
