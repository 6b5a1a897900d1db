package game

import "context"

// Disconnect marks the player's connection stale. The player stays attached
// for the rest of the game. A connID that no longer matches the player's
// handle belongs to an older connection and is ignored.
func (s *Session) Disconnect(ctx context.Context, userID, connID string) ([]Outbound, error) {
	return s.apply(ctx, "disconnect", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if connID != "" && p.ConnID != connID {
			t.readOnly = true
			return nil
		}
		p.Connected = false
		p.ConnID = ""
		t.ev.broadcast(t.g, userID, EventPlayerDisconnected, nil)
		return nil
	})
}

// RejoinGame re-associates a retained player with a new connection and
// replies with a full snapshot. Clients drop any cached state on receipt.
func (s *Session) RejoinGame(ctx context.Context, userID, connID string) ([]Outbound, error) {
	return s.apply(ctx, "rejoin-game", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		p.ConnID = connID
		p.Connected = true
		t.reply(userID, EventGameSnapshot, snapshotFor(t.g, p))
		t.ev.broadcast(t.g, userID, EventPlayerRejoined, nil)
		return nil
	})
}

// LeaveGame permanently removes the caller, freeing their team slot. The host
// role passes to the longest-standing remaining player; the game is destroyed
// when nobody is left.
func (s *Session) LeaveGame(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "leave-game", userID, func(t *tx) error {
		if _, err := t.player(userID); err != nil {
			return err
		}
		audience := t.g.PlayerIDs()
		t.g.detach(userID)
		t.ev.to(audience, EventPlayerLeft, Update{Actor: userID, State: publicView(t.g)})

		if len(t.g.Players) == 0 {
			t.g.Active = false
			t.end = endDestroy
			return nil
		}
		return t.settle()
	})
}

// ExitGame validates that the caller belongs to the game. Navigating away
// changes no game state; the gateway tears down the connection.
func (s *Session) ExitGame(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "exit-game", userID, func(t *tx) error {
		t.readOnly = true
		_, err := t.player(userID)
		return err
	})
}

// AbandonGame lets the host discard a game before any player has finished
// setup.
func (s *Session) AbandonGame(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "abandon-game", userID, func(t *tx) error {
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		if err := t.requireHost(p, "abandon the game"); err != nil {
			return err
		}
		if t.g.Phase > PhaseWarriorSelection {
			return Validation("game is already under way")
		}
		for _, pl := range t.g.Players {
			if pl.SetupComplete {
				return Validation("a player has already finished setup")
			}
		}
		t.g.Active = false
		t.end = endDestroy
		t.ev.broadcast(t.g, userID, EventGameAbandoned, nil)
		return nil
	})
}

// Debug replies with the state as the caller is allowed to see it.
func (s *Session) Debug(ctx context.Context, userID string) ([]Outbound, error) {
	return s.apply(ctx, "debug", userID, func(t *tx) error {
		t.readOnly = true
		p, err := t.player(userID)
		if err != nil {
			return err
		}
		t.reply(userID, EventDebug, DebugState{
			Snapshot:  snapshotFor(t.g, p),
			ConnID:    p.ConnID,
			Activated: append([]int{}, t.g.Daybreak[userID]...),
			Decklist:  p.Decklist,
		})
		return nil
	})
}
