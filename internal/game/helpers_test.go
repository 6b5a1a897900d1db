package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeContent struct{}

func (fakeContent) GetSage(_ context.Context, id string) (Sage, error) {
	switch id {
	case "Ember", "Tide":
		return Sage{ID: id, Name: id, DefaultDecklist: id + "-starter"}, nil
	}
	return Sage{}, NotFound("sage")
}

func (fakeContent) GetDecklist(_ context.Context, id string) (Decklist, error) {
	switch id {
	case "Ember-starter", "Tide-starter":
		cards := make([]CardID, 12)
		for i := range cards {
			cards[i] = CardID(fmt.Sprintf("%s-%02d", id, i))
		}
		return Decklist{ID: id, SageID: id[:len(id)-len("-starter")], Cards: cards}, nil
	}
	return Decklist{}, NotFound("decklist")
}

type plainPasswords struct{}

func (plainPasswords) Hash(plain string) (string, error) { return "plain:" + plain, nil }
func (plainPasswords) Matches(hash, plain string) bool { return hash == "plain:"+plain }

// memStore round-trips snapshots through JSON the way a real store would.
type memStore struct {
	mu       sync.Mutex
	live     map[string][]byte
	archived map[string][]byte
	loads    int
}

func newMemStore() *memStore {
	return &memStore{live: map[string][]byte{}, archived: map[string][]byte{}}
}

func (m *memStore) Save(_ context.Context, g *Game) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[g.ID] = b
	return nil
}

func (m *memStore) Load(_ context.Context, id string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	b, ok := m.live[id]
	if !ok {
		return nil, NotFound("game")
	}
	var g Game
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, id)
	return nil
}

func (m *memStore) Archive(_ context.Context, g *Game) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, g.ID)
	m.archived[g.ID] = b
	return nil
}

func newTestRegistry(t *testing.T, store Persistence) *Registry {
	t.Helper()
	seed := int64(7)
	var mu sync.Mutex
	return NewRegistry(Options{
		Content:   fakeContent{},
		Passwords: plainPasswords{},
		Store:     store,
		Rules:     Rules{StartingHandSize: 5, MaxRounds: 2, RoundGoldIncome: 2},
		Rand: func() *rand.Rand {
			mu.Lock()
			defer mu.Unlock()
			seed++
			return rand.New(rand.NewSource(seed))
		},
	})
}

func countEvents(out []Outbound, name string) int {
	n := 0
	for _, o := range out {
		if o.Event == name {
			n++
		}
	}
	return n
}

func phaseChangesTo(out []Outbound, to Phase) int {
	n := 0
	for _, o := range out {
		if o.Event != EventPhaseChanged {
			continue
		}
		if u, ok := o.Payload.(Update); ok {
			if pc, ok := u.Detail.(PhaseChange); ok && pc.To == to {
				n++
			}
		}
	}
	return n
}

// recorder accumulates the events of a sequence of calls.
type recorder struct {
	t   *testing.T
	out []Outbound
}

func (r *recorder) ok(out []Outbound, err error) {
	r.t.Helper()
	require.NoError(r.t, err)
	r.out = append(r.out, out...)
}

// setupToReady drives a 4-player game up to READY_UP with players h, u2, u3, u4.
func setupToReady(t *testing.T, reg *Registry) (*Session, *recorder) {
	t.Helper()
	ctx := context.Background()
	rec := &recorder{t: t}

	s, out, err := reg.Create(ctx, "h", GameConfig{Name: "table", Capacity: 4}, "c-h")
	rec.ok(out, err)

	users := []string{"h", "u2", "u3", "u4"}
	for _, u := range users {
		rec.ok(s.JoinGame(ctx, u, "", "c-"+u))
	}
	for i, u := range users {
		sage := "Ember"
		if i%2 == 1 {
			sage = "Tide"
		}
		rec.ok(s.SelectSage(ctx, u, sage, ""))
	}
	for i, u := range users {
		rec.ok(s.JoinTeam(ctx, u, i%2+1))
	}
	for _, u := range users {
		rec.ok(s.ToggleReady(ctx, u))
	}
	return s, rec
}

// setupToPlay drives a 2-player game into PHASE1 with players h and u2.
func setupToPlay(t *testing.T, reg *Registry) *Session {
	t.Helper()
	ctx := context.Background()
	rec := &recorder{t: t}

	s, out, err := reg.Create(ctx, "h", GameConfig{Name: "duel", Capacity: 2}, "c-h")
	rec.ok(out, err)
	rec.ok(s.JoinGame(ctx, "u2", "", "c-u2"))
	rec.ok(s.SelectSage(ctx, "h", "Ember", ""))
	rec.ok(s.SelectSage(ctx, "u2", "Tide", ""))
	rec.ok(s.JoinTeam(ctx, "h", 1))
	rec.ok(s.JoinTeam(ctx, "u2", 2))
	rec.ok(s.ToggleReady(ctx, "h"))
	rec.ok(s.ToggleReady(ctx, "u2"))
	rec.ok(s.StartGame(ctx, "h"))
	rec.ok(s.ChooseWarriors(ctx, "h", []CardID{"w1", "w2"}))
	rec.ok(s.ChooseWarriors(ctx, "u2", []CardID{"w3", "w4"}))
	require.Equal(t, PhasePhase1, s.View().Phase)
	return s
}
