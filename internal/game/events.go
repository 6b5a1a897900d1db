package game

// Outbound event names.
const (
	EventGameCreated        = "game-created"
	EventPlayerJoined       = "player-joined"
	EventSageSelected       = "sage-selected"
	EventAllSagesSelected   = "all-sages-selected"
	EventTeamJoined         = "team-joined"
	EventTeamsCleared       = "teams-cleared"
	EventAllTeamsJoined     = "all-teams-joined"
	EventReady              = "ready-status--ready"
	EventNotReady           = "ready-status--not-ready"
	EventGameStarted        = "game-started"
	EventHandUpdated        = "hand-updated"
	EventChoseWarriors      = "chose-warriors"
	EventAllPlayersSetup    = "all-players-setup"
	EventSetupCancelled     = "setup-cancelled"
	EventPhaseChanged       = "phase-changed"
	EventStartTurn          = "start-turn"
	EventWaitingTurn        = "waiting-turn"
	EventDaybreakCards      = "day-break-cards"
	EventDaybreakActivated  = "day-break-activated"
	EventCardDrawn          = "card-drawn"
	EventCardDiscarded      = "card-discarded"
	EventCardRemoved        = "card-removed"
	EventDeckExhausted      = "deck-exhausted"
	EventGoldChanged        = "gold-changed"
	EventPlayerDisconnected = "player-disconnected"
	EventPlayerRejoined     = "player-rejoined"
	EventGameSnapshot       = "game-snapshot"
	EventPlayerLeft         = "player-left"
	EventGameAbandoned      = "game-abandoned"
	EventGameFinished       = "game-finished"
	EventDebug              = "debug"
)

// Outbound is one event addressed to a set of users, handed to the gateway
// for delivery.
type Outbound struct {
	Targets []string `json:"-"`
	Event   string   `json:"event"`
	Payload any      `json:"payload"`
}

// Update is the payload of every broadcast: who acted, what changed, and the
// resulting public state.
type Update struct {
	Actor  string     `json:"actor,omitempty"`
	Detail any        `json:"detail,omitempty"`
	State  PublicView `json:"state"`
}

type PhaseChange struct {
	From  Phase `json:"from"`
	To    Phase `json:"to"`
	Round int   `json:"round"`
}

type SageChoice struct {
	Sage     string `json:"sage"`
	Decklist string `json:"decklist"`
}

type TeamChoice struct {
	Team int `json:"team"`
}

type ReadyStatus struct {
	Ready bool `json:"ready"`
}

type WarriorChoice struct {
	Spaces []int    `json:"spaces"`
	Cards  []CardID `json:"cards"`
}

type DaybreakActivation struct {
	Space int `json:"space"`
}

type DaybreakCards struct {
	Round     int         `json:"round"`
	Spaces    []Placement `json:"spaces"`
	Indexes   []int       `json:"indexes"`
	Activated []int       `json:"activated"`
}

type CardMove struct {
	CardID CardID `json:"cardId,omitempty"`
	Space  *int   `json:"space,omitempty"`
}

type GoldChange struct {
	Team  int `json:"team"`
	Delta int `json:"delta"`
	Gold  int `json:"gold"`
}

type Turn struct {
	Round int   `json:"round"`
	Phase Phase `json:"phase"`
	Team  int   `json:"team"`
}

// Hand is sent privately to the owner of the cards.
type Hand struct {
	Hand    []CardID `json:"hand"`
	Deck    int      `json:"deck"`
	Discard []CardID `json:"discard"`
}

// Snapshot is the full resync reply of rejoin-game. Clients replace any
// cached state with it.
type Snapshot struct {
	State   PublicView `json:"state"`
	Hand    []CardID   `json:"hand"`
	Deck    []CardID   `json:"deck"`
	Discard []CardID   `json:"discard"`
}

// DebugState is the debug reply. It carries the caller's own piles and
// bookkeeping, never another player's cards or the game password.
type DebugState struct {
	Snapshot
	ConnID    string `json:"connId"`
	Activated []int  `json:"activated"`
	Decklist  string `json:"decklist"`
}

type events struct {
	out []Outbound
}

func (e *events) to(targets []string, name string, payload any) {
	e.out = append(e.out, Outbound{Targets: targets, Event: name, Payload: payload})
}

func (e *events) broadcast(g *Game, actor, name string, detail any) {
	e.to(g.PlayerIDs(), name, Update{Actor: actor, Detail: detail, State: publicView(g)})
}

func (e *events) private(p *Player) {
	e.to([]string{p.UserID}, EventHandUpdated, handOf(p))
}

func handOf(p *Player) Hand {
	return Hand{
		Hand:    append([]CardID{}, p.Hand...),
		Deck:    len(p.Deck),
		Discard: append([]CardID{}, p.Discard...),
	}
}
