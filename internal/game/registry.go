package game

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Registry.
type Options struct {
	Content   ContentStore
	Passwords Passwords
	Store     Persistence
	Rules     Rules
	Logger    *zap.Logger
	// Rand builds the generator for each new session. Defaults to a
	// time-seeded math/rand source.
	Rand RandSource
}

// Registry maps game ids to live sessions. Its lock guards only the map;
// actions run under each session's own lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	restores singleflight.Group
	env      *env
	newRand  RandSource
}

// NewRegistry builds an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Store == nil {
		opts.Store = NoPersistence{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		newRand:  opts.Rand,
	}
	r.env = &env{
		content:   opts.Content,
		passwords: opts.Passwords,
		store:     opts.Store,
		rules:     opts.Rules.withDefaults(),
		log:       opts.Logger,
		release:   r.release,
	}
	return r
}

// Create starts a new game in JOINING_GAME with hostID attached to team 1.
func (r *Registry) Create(ctx context.Context, hostID string, cfg GameConfig, connID string) (*Session, []Outbound, error) {
	if strings.TrimSpace(hostID) == "" {
		return nil, nil, Validation("host id is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	g := &Game{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(cfg.Name),
		IsPrivate: cfg.Private,
		Capacity:  cfg.Capacity,
		Phase:     PhaseJoiningGame,
		Players:   make(map[string]*Player),
		Active:    true,
		Daybreak:  map[string][]int{},
	}
	if cfg.Private {
		hash, err := r.env.passwords.Hash(cfg.Password)
		if err != nil {
			return nil, nil, Validation("password cannot be used")
		}
		g.PasswordHash = hash
	}
	size := cfg.Capacity / 2
	g.Teams = [2]*Team{newTeam(1, size), newTeam(2, size)}

	host := g.attach(hostID)
	host.IsHost = true
	host.ConnID = connID
	g.HostID = hostID
	g.assignFirstFree(host)

	s := newSession(g, r.newRand(), r.env)
	if err := r.env.store.Save(ctx, g); err != nil {
		s.log.Warn("persist snapshot", zap.String("action", "create-game"), zap.Error(err))
	}

	r.mu.Lock()
	r.sessions[g.ID] = s
	r.mu.Unlock()

	s.log.Info("game created", zap.String("user_id", hostID), zap.Int("capacity", g.Capacity))
	var ev events
	ev.broadcast(g, hostID, EventGameCreated, nil)
	return s, ev.out, nil
}

// Get returns the live session for id. On a miss it tries to restore the game
// from persistence; concurrent restores of one id share a single load.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if s, ok := r.lookup(id); ok {
		return s, nil
	}
	v, err, _ := r.restores.Do(id, func() (any, error) {
		if s, ok := r.lookup(id); ok {
			return s, nil
		}
		g, err := r.env.store.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound("game")
		}
		if err != nil {
			r.env.log.Warn("load snapshot", zap.String("game_id", id), zap.Error(err))
			return nil, internal("game could not be loaded")
		}
		if !g.Active || g.ID != id || g.Teams[0] == nil || g.Teams[1] == nil {
			return nil, NotFound("game")
		}
		restore(g)

		s := newSession(g, r.newRand(), r.env)
		r.mu.Lock()
		if existing, ok := r.sessions[id]; ok {
			s = existing
		} else {
			r.sessions[id] = s
		}
		r.mu.Unlock()
		s.log.Info("game restored", zap.Stringer("phase", g.Phase))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// restore normalizes a loaded snapshot: transport handles do not survive a
// restart, so every player starts disconnected.
func restore(g *Game) {
	if g.Players == nil {
		g.Players = make(map[string]*Player)
	}
	if g.Daybreak == nil {
		g.Daybreak = map[string][]int{}
	}
	for _, p := range g.Players {
		p.Connected = false
		p.ConnID = ""
	}
}

func (r *Registry) lookup(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Destroy closes the session for id, waiting for any in-flight action, and
// forgets it.
func (r *Registry) Destroy(ctx context.Context, id string) error {
	s, ok := r.lookup(id)
	if !ok {
		return NotFound("game")
	}
	s.close(ctx)
	r.release(s)
	return nil
}

func (r *Registry) release(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[s.id]; ok && current == s {
		delete(r.sessions, s.id)
	}
}

// List projects live games for the lobby. started selects games that have
// left the setup phases.
func (r *Registry) List(started bool) []Summary {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		sum := s.Summary()
		if sum.Phase.IsGameplay() == started && sum.Phase != PhaseGameFinished {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
