package game

import (
	"context"
	"fmt"
)

// AdvancePhase moves a running game to its next gameplay phase. Leaving the
// new-hand phase either opens the next round or, once the end condition
// holds, finishes the game.
func (s *Session) AdvancePhase(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "advance-phase", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requireHost(p, "advance the phase"); err != nil {
			return err
		}
		if !t.g.Phase.inPlay() {
			return Validation(fmt.Sprintf("cannot advance during %s", t.g.Phase))
		}
		if t.g.Phase == PhaseDrawingNewHand && t.endReached() {
			if err := t.transition(TriggerEndReached); err != nil {
				return err
			}
			return t.transition(TriggerFinish)
		}
		return t.transition(TriggerAdvance)
	})
}

// ActivateDaybreak resolves the daybreak card on one space of the caller's
// battlefield. Each space can be activated once per round by each player.
func (s *Session) ActivateDaybreak(ctx context.Context, userID string, space int) ([]Outbound, error) {
	return s.apply(ctx, "activate-day-break", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requirePhase(PhaseResolveDaybreakCards, "activate-day-break"); err != nil {
			return err
		}
		team := t.g.teamOf(p)
		if team == nil {
			return NotFound("team")
		}
		if space < 0 || space >= BattlefieldSpaces {
			return Validation(fmt.Sprintf("space must be between 0 and %d", BattlefieldSpaces-1))
		}
		if team.Battlefield.Spaces[space] == nil {
			return Validation(fmt.Sprintf("space %d holds no card", space))
		}
		for _, used := range t.g.Daybreak[userID] {
			if used == space {
				return Conflict(fmt.Sprintf("space %d was already activated this round", space))
			}
		}
		if t.g.Daybreak == nil {
			t.g.Daybreak = map[string][]int{}
		}
		t.g.Daybreak[userID] = append(t.g.Daybreak[userID], space)
		t.ev.broadcast(t.g, userID, EventDaybreakActivated, DaybreakActivation{Space: space})
		return nil
	})
}

// DaybreakCards replies with the caller's occupied spaces and which of them
// were already activated this round.
func (s *Session) DaybreakCards(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "get-day-break-cards", userID, func(t *tx) error {
		t.readOnly = true
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		team := t.g.teamOf(p)
		if team == nil {
			return NotFound("team")
		}
		reply := DaybreakCards{
			Round:     t.g.Round,
			Spaces:    []Placement{},
			Indexes:   team.Battlefield.occupied(),
			Activated: append([]int{}, t.g.Daybreak[userID]...),
		}
		for _, i := range reply.Indexes {
			reply.Spaces = append(reply.Spaces, *team.Battlefield.Spaces[i])
		}
		t.reply(userID, EventDaybreakCards, reply)
		return nil
	})
}

// DrawCard moves one random card from the caller's deck to their hand. An
// empty deck is reported as a NotFound error on "deck".
func (s *Session) DrawCard(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "draw-card", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if !t.g.Phase.inPlay() {
			return Validation(fmt.Sprintf("cannot draw during %s", t.g.Phase))
		}
		if _, err := drawRandom(p, t.rng); err != nil {
			return err
		}
		t.ev.broadcast(t.g, userID, EventCardDrawn, nil)
		t.ev.private(p)
		return nil
	})
}

// DiscardCard moves card from the caller's hand to their discard pile.
func (s *Session) DiscardCard(ctx context.Context, userID string, card CardID) ([]Outbound, error) {
	return s.apply(ctx, "discard-card", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if !t.g.Phase.inPlay() {
			return Validation(fmt.Sprintf("cannot discard during %s", t.g.Phase))
		}
		if err := discard(p, card); err != nil {
			return err
		}
		t.ev.broadcast(t.g, userID, EventCardDiscarded, CardMove{CardID: card})
		t.ev.private(p)
		return nil
	})
}

// RemoveFromPlay takes the caller's card off a battlefield space for the rest
// of the game. It ends up on the team's removed list.
func (s *Session) RemoveFromPlay(ctx context.Context, userID string, space int) ([]Outbound, error) {
	return s.apply(ctx, "remove-card", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if !t.g.Phase.inPlay() {
			return Validation(fmt.Sprintf("cannot remove cards during %s", t.g.Phase))
		}
		team := t.g.teamOf(p)
		if team == nil {
			return NotFound("team")
		}
		if space < 0 || space >= BattlefieldSpaces {
			return Validation(fmt.Sprintf("space must be between 0 and %d", BattlefieldSpaces-1))
		}
		placed := team.Battlefield.Spaces[space]
		if placed == nil {
			return Validation(fmt.Sprintf("space %d holds no card", space))
		}
		if placed.OwnerID != userID {
			return Validation(fmt.Sprintf("space %d holds another player's card", space))
		}
		team.Battlefield.Spaces[space] = nil
		team.Removed = append(team.Removed, placed.CardID)
		t.ev.broadcast(t.g, userID, EventCardRemoved, CardMove{CardID: placed.CardID, Space: &space})
		return nil
	})
}

// AdjustGold adds delta to the caller's team gold. Income is capped at the
// team maximum; spending more than the team holds is rejected.
func (s *Session) AdjustGold(ctx context.Context, userID string, delta int) ([]Outbound, error) {
	return s.apply(ctx, "adjust-gold", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if t.g.Phase < PhasePhase1 || t.g.Phase > PhasePhase3 {
			return Validation(fmt.Sprintf("gold cannot change during %s", t.g.Phase))
		}
		team := t.g.teamOf(p)
		if team == nil {
			return NotFound("team")
		}
		if !team.addGold(delta) {
			return Validation(fmt.Sprintf("team %d has only %d gold", team.Number, team.Gold))
		}
		t.ev.broadcast(t.g, userID, EventGoldChanged, GoldChange{Team: team.Number, Delta: delta, Gold: team.Gold})
		return nil
	})
}
