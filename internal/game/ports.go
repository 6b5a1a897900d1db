package game

import (
	"context"
	"math/rand"
)

// Sage is a selectable character archetype.
type Sage struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DefaultDecklist string `json:"defaultDecklist"`
}

// Decklist is the set of cards a player brings into a game.
type Decklist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	SageID string   `json:"sageId"`
	Cards  []CardID `json:"cards"`
}

// ContentStore supplies immutable sage and decklist definitions. Misses are
// reported as NotFound errors.
type ContentStore interface {
	GetSage(ctx context.Context, id string) (Sage, error)
	GetDecklist(ctx context.Context, id string) (Decklist, error)
}

// Passwords is the password capability provided by the auth layer. The core
// only ever stores the opaque hash it returns.
type Passwords interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}

// Persistence durably stores session snapshots for rejoin after a restart.
// Load reports a NotFound error when id has no live snapshot.
type Persistence interface {
	Save(ctx context.Context, g *Game) error
	Load(ctx context.Context, id string) (*Game, error)
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, g *Game) error
}

// Rules carries the tunable gameplay policy.
type Rules struct {
	StartingHandSize int
	MaxRounds        int
	RoundGoldIncome  int
	// ReshuffleDiscard shuffles the discard pile back into an exhausted deck
	// during the new-hand refill. Explicit draws still report exhaustion.
	ReshuffleDiscard bool
}

// DefaultRules is used when a registry is built without explicit rules.
var DefaultRules = Rules{
	StartingHandSize: 5,
	MaxRounds:        10,
	RoundGoldIncome:  2,
}

func (r Rules) withDefaults() Rules {
	if r.StartingHandSize <= 0 {
		r.StartingHandSize = DefaultRules.StartingHandSize
	}
	if r.MaxRounds <= 0 {
		r.MaxRounds = DefaultRules.MaxRounds
	}
	if r.RoundGoldIncome < 0 {
		r.RoundGoldIncome = 0
	}
	return r
}

// NoPersistence discards snapshots. Load always misses.
type NoPersistence struct{}

func (NoPersistence) Save(context.Context, *Game) error { return nil }
func (NoPersistence) Load(context.Context, string) (*Game, error) {
	return nil, NotFound("game")
}
func (NoPersistence) Delete(context.Context, string) error { return nil }
func (NoPersistence) Archive(context.Context, *Game) error { return nil }

// RandSource yields the generator used for one session's draws and shuffles.
type RandSource func() *rand.Rand
