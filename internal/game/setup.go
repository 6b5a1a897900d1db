package game

import (
	"context"
	"fmt"
)

// JoinGame attaches userID to the first team with a free slot. A user who is
// already attached is re-associated with connID instead.
func (s *Session) JoinGame(ctx context.Context, userID, password, connID string) ([]Outbound, error) {
	return s.apply(ctx, "join-game", userID, func(t *tx) error {
		g := t.g
		if p, ok := g.Players[userID]; ok {
			p.ConnID = connID
			p.Connected = true
			t.ev.broadcast(g, userID, EventPlayerJoined, nil)
			return nil
		}
		if g.full() {
			return Validation("game is full")
		}
		if g.Phase != PhaseJoiningGame {
			return Validation(fmt.Sprintf("game is no longer accepting players (%s)", g.Phase))
		}
		if g.IsPrivate && !t.env.passwords.Matches(g.PasswordHash, password) {
			return Validation("incorrect password")
		}

		p := g.attach(userID)
		p.ConnID = connID
		if !g.assignFirstFree(p) {
			return Conflict("no free team slot")
		}
		t.ev.broadcast(g, userID, EventPlayerJoined, TeamChoice{Team: p.Team})

		if g.full() {
			return t.transition(TriggerGameFull)
		}
		return nil
	})
}

// SelectSage records the caller's sage and decklist. Re-selecting before
// every player has chosen overwrites the earlier choice.
func (s *Session) SelectSage(ctx context.Context, userID, sageID, decklistID string) ([]Outbound, error) {
	return s.apply(ctx, "select-sage", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if t.g.Phase > PhaseSageSelection && p.Sage != "" && p.Sage != sageID {
			return Conflict(fmt.Sprintf("sage %q is already locked in", p.Sage))
		}
		if err := t.requirePhase(PhaseSageSelection, "select-sage"); err != nil {
			return err
		}

		sage, err := t.env.content.GetSage(t.ctx, sageID)
		if err != nil {
			return err
		}
		if decklistID == "" {
			decklistID = sage.DefaultDecklist
		}
		deck, err := t.env.content.GetDecklist(t.ctx, decklistID)
		if err != nil {
			return err
		}
		if deck.SageID != "" && deck.SageID != sage.ID {
			return Validation(fmt.Sprintf("decklist %q is not playable with %s", deck.ID, sage.Name))
		}

		p.Sage = sage.ID
		p.Decklist = deck.ID
		t.ev.broadcast(t.g, userID, EventSageSelected, SageChoice{Sage: p.Sage, Decklist: p.Decklist})
		return t.settle()
	})
}

// JoinTeam moves the caller onto team, subject to the team's size.
func (s *Session) JoinTeam(ctx context.Context, userID string, team int) ([]Outbound, error) {
	return s.apply(ctx, "join-team", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseJoiningTeams, "join-team"); err != nil {
			return err
		}
		target, err := t.g.Team(team)
		if err != nil {
			return Validation("team must be 1 or 2")
		}
		if !target.has(userID) {
			if target.full() {
				return Validation(fmt.Sprintf("team %d is full", team))
			}
			if current := t.g.teamOf(p); current != nil {
				current.remove(userID)
			}
			target.add(userID)
			p.Team = team
		}
		t.ev.broadcast(t.g, userID, EventTeamJoined, TeamChoice{Team: team})
		return t.settle()
	})
}

// ClearTeams removes every team assignment so players can pick again.
func (s *Session) ClearTeams(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "clear-teams", userID, func(t *tx) error {
		if _, err := t.player(userID); err != nil {
			return err
		}
		if err := t.requirePhase(PhaseJoiningTeams, "clear-teams"); err != nil {
			return err
		}
		for _, team := range t.g.Teams {
			team.PlayerIDs = []string{}
		}
		for _, p := range t.g.Players {
			p.Team = 0
		}
		t.ev.broadcast(t.g, userID, EventTeamsCleared, nil)
		return nil
	})
}

// ToggleReady flips the caller's ready flag.
func (s *Session) ToggleReady(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "toggle-ready-status", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseReadyUp, "toggle-ready-status"); err != nil {
			return err
		}
		p.Ready = !p.Ready
		name := EventNotReady
		if p.Ready {
			name = EventReady
		}
		t.ev.broadcast(t.g, userID, name, ReadyStatus{Ready: p.Ready})
		return nil
	})
}

// StartGame deals every player's deck and opens warrior selection.
func (s *Session) StartGame(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "start-game", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseReadyUp, "start-game"); err != nil {
			return err
		}
		if err := t.requireHost(p, "start the game"); err != nil {
			return err
		}
		if !t.g.every(func(p *Player) bool { return p.Ready }) {
			return Validation("not every player is ready")
		}
		for _, team := range t.g.Teams {
			if len(team.PlayerIDs) == 0 {
				return Validation(fmt.Sprintf("team %d has no players", team.Number))
			}
		}

		players := t.g.orderedPlayers()
		for _, pl := range players {
			deck, err := t.env.content.GetDecklist(t.ctx, pl.Decklist)
			if err != nil {
				return err
			}
			dealDeck(pl, deck.Cards, t.rng)
			refill(pl, t.rules.StartingHandSize, false, t.rng)
		}

		t.ev.broadcast(t.g, userID, EventGameStarted, nil)
		for _, pl := range players {
			t.ev.private(pl)
		}
		return t.transition(TriggerHostStart)
	})
}

// ChooseWarriors places the caller's warriors on their team's battlefield,
// replacing an earlier pick.
func (s *Session) ChooseWarriors(ctx context.Context, userID string, warriors []CardID) ([]Outbound, error) {
	return s.apply(ctx, "pick-warriors", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseWarriorSelection, "pick-warriors"); err != nil {
			return err
		}
		if len(warriors) != WarriorsPerPlayer {
			return Validation(fmt.Sprintf("pick exactly %d warriors", WarriorsPerPlayer))
		}
		seen := make(map[CardID]bool, len(warriors))
		for _, w := range warriors {
			if w == "" || seen[w] {
				return Validation("warriors must be distinct cards")
			}
			seen[w] = true
		}
		team := t.g.teamOf(p)
		if team == nil {
			return NotFound("team")
		}

		team.Battlefield.removeOwner(userID)
		free := team.Battlefield.free()
		if len(free) < len(warriors) {
			return Conflict("battlefield has no room left")
		}
		spaces := free[:len(warriors)]
		for i, space := range spaces {
			team.Battlefield.Spaces[space] = &Placement{CardID: warriors[i], OwnerID: userID}
		}
		p.WarriorsChosen = true
		p.SetupComplete = true

		t.ev.broadcast(t.g, userID, EventChoseWarriors, WarriorChoice{Spaces: spaces, Cards: warriors})
		return t.settle()
	})
}

// SwapWarriors exchanges the positions of the caller's two warriors.
func (s *Session) SwapWarriors(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "swap-warriors", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseWarriorSelection, "swap-warriors"); err != nil {
			return err
		}
		team := t.g.teamOf(p)
		if !p.WarriorsChosen || team == nil {
			return Validation("pick warriors before swapping them")
		}
		owned := team.Battlefield.ownedBy(userID)
		if len(owned) < 2 {
			return Validation("need two warriors to swap")
		}
		a, b := owned[0], owned[1]
		field := &team.Battlefield
		field.Spaces[a], field.Spaces[b] = field.Spaces[b], field.Spaces[a]

		t.ev.broadcast(t.g, userID, EventChoseWarriors, WarriorChoice{
			Spaces: []int{a, b},
			Cards:  []CardID{field.Spaces[a].CardID, field.Spaces[b].CardID},
		})
		return nil
	})
}

// CancelSetup withdraws the caller's warrior pick.
func (s *Session) CancelSetup(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "cancel-setup", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseWarriorSelection, "cancel-setup"); err != nil {
			return err
		}
		if !p.SetupComplete {
			return Validation("no warrior pick to cancel")
		}
		if team := t.g.teamOf(p); team != nil {
			team.Battlefield.removeOwner(userID)
		}
		p.WarriorsChosen = false
		p.SetupComplete = false
		t.ev.broadcast(t.g, userID, EventSetupCancelled, nil)
		return nil
	})
}
