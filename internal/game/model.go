package game

import (
	"sort"
	"strings"
)

const (
	// BattlefieldSpaces is the number of positions on each team's battlefield.
	BattlefieldSpaces = 6
	// WarriorsPerPlayer is how many warriors each player places during setup.
	WarriorsPerPlayer = 2

	maxGoldSolo = 12
	maxGoldDuo  = 20
)

// CardID is an opaque reference into the content store.
type CardID string

// GameConfig is the input of a create-game request.
type GameConfig struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Private  bool   `json:"private"`
	Password string `json:"password,omitempty"`
}

func (c GameConfig) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Validation("game name is required")
	}
	if c.Capacity != 2 && c.Capacity != 4 {
		return Validation("capacity must be 2 or 4")
	}
	if c.Private && c.Password == "" {
		return Validation("private games require a password")
	}
	return nil
}

// Game is the authoritative state of one session.
type Game struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	IsPrivate    bool               `json:"isPrivate"`
	PasswordHash string             `json:"passwordHash,omitempty"`
	Capacity     int                `json:"capacity"`
	Phase        Phase              `json:"phase"`
	Teams        [2]*Team           `json:"teams"`
	Players      map[string]*Player `json:"players"`
	HostID       string             `json:"hostId"`
	Active       bool               `json:"active"`
	Round        int                `json:"round"`
	FirstTeam    int                `json:"firstTeam"`
	// Daybreak records activated space options this round, keyed by user id.
	Daybreak map[string][]int `json:"daybreak,omitempty"`
}

// Team is one of the two sides of a game.
type Team struct {
	Number      int         `json:"number"`
	Size        int         `json:"size"`
	PlayerIDs   []string    `json:"playerIds"`
	Battlefield Battlefield `json:"battlefield"`
	Gold        int         `json:"gold"`
	Removed     []CardID    `json:"removed"`
}

// Player is a participant. UserID is stable across reconnects; ConnID is the
// transient transport handle.
type Player struct {
	UserID         string   `json:"userId"`
	ConnID         string   `json:"-"`
	Connected      bool     `json:"connected"`
	Team           int      `json:"team"`
	Ready          bool     `json:"ready"`
	SetupComplete  bool     `json:"setupComplete"`
	WarriorsChosen bool     `json:"warriorsChosen"`
	IsHost         bool     `json:"isHost"`
	Sage           string   `json:"sage"`
	Decklist       string   `json:"decklist"`
	Level          int      `json:"level"`
	Hand           []CardID `json:"hand"`
	Deck           []CardID `json:"deck"`
	Discard        []CardID `json:"discard"`
	JoinOrder      int      `json:"joinOrder"`
}

// CardCount is the conserved total of hand, deck and discard.
func (p *Player) CardCount() int {
	return len(p.Hand) + len(p.Deck) + len(p.Discard)
}

// Placement is a card occupying a battlefield space.
type Placement struct {
	CardID  CardID `json:"cardId"`
	OwnerID string `json:"ownerId"`
}

// Battlefield is the positional board of one team.
type Battlefield struct {
	Spaces [BattlefieldSpaces]*Placement `json:"spaces"`
}

func (b *Battlefield) removeOwner(userID string) {
	for i, p := range b.Spaces {
		if p != nil && p.OwnerID == userID {
			b.Spaces[i] = nil
		}
	}
}

func (b *Battlefield) ownedBy(userID string) []int {
	var out []int
	for i, p := range b.Spaces {
		if p != nil && p.OwnerID == userID {
			out = append(out, i)
		}
	}
	return out
}

func (b *Battlefield) free() []int {
	var out []int
	for i, p := range b.Spaces {
		if p == nil {
			out = append(out, i)
		}
	}
	return out
}

func (b *Battlefield) occupied() []int {
	var out []int
	for i, p := range b.Spaces {
		if p != nil {
			out = append(out, i)
		}
	}
	return out
}

func newTeam(number, size int) *Team {
	return &Team{Number: number, Size: size, PlayerIDs: []string{}, Removed: []CardID{}}
}

// MaxGold is the gold cap; smaller teams get the smaller pool.
func (t *Team) MaxGold() int {
	if t.Size == 1 {
		return maxGoldSolo
	}
	return maxGoldDuo
}

func (t *Team) full() bool {
	return len(t.PlayerIDs) >= t.Size
}

func (t *Team) has(userID string) bool {
	for _, id := range t.PlayerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Team) add(userID string) {
	t.PlayerIDs = append(t.PlayerIDs, userID)
}

func (t *Team) remove(userID string) {
	out := t.PlayerIDs[:0]
	for _, id := range t.PlayerIDs {
		if id != userID {
			out = append(out, id)
		}
	}
	t.PlayerIDs = out
}

// addGold applies delta clamped to [0, MaxGold]. It reports false, leaving
// gold untouched, when delta would take the counter below zero.
func (t *Team) addGold(delta int) bool {
	next := t.Gold + delta
	if next < 0 {
		return false
	}
	if next > t.MaxGold() {
		next = t.MaxGold()
	}
	t.Gold = next
	return true
}

// Team returns the team with the given number (1 or 2).
func (g *Game) Team(number int) (*Team, error) {
	if number != 1 && number != 2 {
		return nil, NotFound("team")
	}
	return g.Teams[number-1], nil
}

// Player returns the attached player with the given user id.
func (g *Game) Player(userID string) (*Player, error) {
	p, ok := g.Players[userID]
	if !ok {
		return nil, NotFound("player")
	}
	return p, nil
}

// PlayerIDs lists attached players in join order.
func (g *Game) PlayerIDs() []string {
	players := g.orderedPlayers()
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.UserID
	}
	return ids
}

func (g *Game) orderedPlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinOrder < out[j].JoinOrder })
	return out
}

func (g *Game) teamOf(p *Player) *Team {
	if p.Team == 0 {
		return nil
	}
	return g.Teams[p.Team-1]
}

func (g *Game) full() bool {
	return len(g.Players) >= g.Capacity
}

func (g *Game) attach(userID string) *Player {
	order := 1
	for _, existing := range g.Players {
		if existing.JoinOrder >= order {
			order = existing.JoinOrder + 1
		}
	}
	p := &Player{
		UserID:    userID,
		Connected: true,
		Level:     1,
		Hand:      []CardID{},
		Deck:      []CardID{},
		Discard:   []CardID{},
		JoinOrder: order,
	}
	g.Players[userID] = p
	return p
}

func (g *Game) assignFirstFree(p *Player) bool {
	for _, t := range g.Teams {
		if !t.full() {
			t.add(p.UserID)
			p.Team = t.Number
			return true
		}
	}
	return false
}

func (g *Game) detach(userID string) {
	p, ok := g.Players[userID]
	if !ok {
		return
	}
	if t := g.teamOf(p); t != nil {
		t.remove(userID)
		t.Battlefield.removeOwner(userID)
	}
	delete(g.Players, userID)
	delete(g.Daybreak, userID)
	if g.HostID == userID {
		g.HostID = ""
		if next := g.orderedPlayers(); len(next) > 0 {
			next[0].IsHost = true
			g.HostID = next[0].UserID
		}
	}
}

func (g *Game) every(pred func(*Player) bool) bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if !pred(p) {
			return false
		}
	}
	return true
}

func (g *Game) clone() *Game {
	c := *g
	for i, t := range g.Teams {
		tc := *t
		tc.PlayerIDs = append([]string{}, t.PlayerIDs...)
		tc.Removed = append([]CardID{}, t.Removed...)
		for s, pl := range t.Battlefield.Spaces {
			if pl != nil {
				cp := *pl
				tc.Battlefield.Spaces[s] = &cp
			}
		}
		c.Teams[i] = &tc
	}
	c.Players = make(map[string]*Player, len(g.Players))
	for id, p := range g.Players {
		pc := *p
		pc.Hand = append([]CardID{}, p.Hand...)
		pc.Deck = append([]CardID{}, p.Deck...)
		pc.Discard = append([]CardID{}, p.Discard...)
		c.Players[id] = &pc
	}
	c.Daybreak = make(map[string][]int, len(g.Daybreak))
	for id, used := range g.Daybreak {
		c.Daybreak[id] = append([]int{}, used...)
	}
	return &c
}
