package game

// PublicView is the slice of game state every player may see.
type PublicView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsPrivate bool         `json:"isPrivate"`
	Capacity  int          `json:"capacity"`
	Phase     Phase        `json:"phase"`
	Round     int          `json:"round"`
	FirstTeam int          `json:"firstTeam"`
	HostID    string       `json:"hostId"`
	Active    bool         `json:"active"`
	Teams     []TeamView   `json:"teams"`
	Players   []PlayerView `json:"players"`
}

type TeamView struct {
	Number      int          `json:"number"`
	Size        int          `json:"size"`
	Gold        int          `json:"gold"`
	MaxGold     int          `json:"maxGold"`
	PlayerIDs   []string     `json:"playerIds"`
	Battlefield []*Placement `json:"battlefield"`
	Removed     []CardID     `json:"removed"`
}

type PlayerView struct {
	UserID         string `json:"userId"`
	Team           int    `json:"team"`
	IsHost         bool   `json:"isHost"`
	Connected      bool   `json:"connected"`
	Ready          bool   `json:"ready"`
	WarriorsChosen bool   `json:"warriorsChosen"`
	SetupComplete  bool   `json:"setupComplete"`
	Sage           string `json:"sage"`
	Level          int    `json:"level"`
	HandCount      int    `json:"handCount"`
	DeckCount      int    `json:"deckCount"`
	DiscardCount   int    `json:"discardCount"`
}

// Summary is the lobby listing projection of a game.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsPrivate    bool   `json:"isPrivate"`
	Capacity     int    `json:"capacity"`
	CurrentCount int    `json:"currentCount"`
	Phase        Phase  `json:"phase"`
}

func publicView(g *Game) PublicView {
	v := PublicView{
		ID:        g.ID,
		Name:      g.Name,
		IsPrivate: g.IsPrivate,
		Capacity:  g.Capacity,
		Phase:     g.Phase,
		Round:     g.Round,
		FirstTeam: g.FirstTeam,
		HostID:    g.HostID,
		Active:    g.Active,
		Teams:     make([]TeamView, 0, len(g.Teams)),
		Players:   make([]PlayerView, 0, len(g.Players)),
	}
	for _, t := range g.Teams {
		field := make([]*Placement, len(t.Battlefield.Spaces))
		for i, p := range t.Battlefield.Spaces {
			if p != nil {
				cp := *p
				field[i] = &cp
			}
		}
		v.Teams = append(v.Teams, TeamView{
			Number:      t.Number,
			Size:        t.Size,
			Gold:        t.Gold,
			MaxGold:     t.MaxGold(),
			PlayerIDs:   append([]string{}, t.PlayerIDs...),
			Battlefield: field,
			Removed:     append([]CardID{}, t.Removed...),
		})
	}
	for _, p := range g.orderedPlayers() {
		v.Players = append(v.Players, PlayerView{
			UserID:         p.UserID,
			Team:           p.Team,
			IsHost:         p.IsHost,
			Connected:      p.Connected,
			Ready:          p.Ready,
			WarriorsChosen: p.WarriorsChosen,
			SetupComplete:  p.SetupComplete,
			Sage:           p.Sage,
			Level:          p.Level,
			HandCount:      len(p.Hand),
			DeckCount:      len(p.Deck),
			DiscardCount:   len(p.Discard),
		})
	}
	return v
}

func summarize(g *Game) Summary {
	return Summary{
		ID:           g.ID,
		Name:         g.Name,
		IsPrivate:    g.IsPrivate,
		Capacity:     g.Capacity,
		CurrentCount: len(g.Players),
		Phase:        g.Phase,
	}
}

func snapshotFor(g *Game, p *Player) Snapshot {
	return Snapshot{
		State:   publicView(g),
		Hand:    append([]CardID{}, p.Hand...),
		Deck:    append([]CardID{}, p.Deck...),
		Discard: append([]CardID{}, p.Discard...),
	}
}
