package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"daybreak/backend/internal/game"
)

type createGamePayload struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Private  bool   `json:"private"`
	Password string `json:"password"`
}

type joinGamePayload struct {
	Password string `json:"password"`
}

type selectSagePayload struct {
	Sage     string `json:"sage"`
	Decklist string `json:"decklist"`
}

type joinTeamPayload struct {
	Team int `json:"team"`
}

type pickWarriorsPayload struct {
	Warriors []game.CardID `json:"warriors"`
}

type spacePayload struct {
	Space *int `json:"space"`
}

type discardPayload struct {
	CardID game.CardID `json:"cardId"`
}

type goldPayload struct {
	Delta int `json:"delta"`
}

// action runs one inbound event against the session it addresses.
type action func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error)

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return game.Validation("malformed payload: " + err.Error())
	}
	return nil
}

var actions = map[string]action{
	"join-game": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p joinGamePayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		out, err := s.JoinGame(ctx, c.userID, p.Password, c.id)
		if err == nil {
			c.track(s.ID())
		}
		return out, err
	},
	"select-sage": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p selectSagePayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.Sage == "" {
			return nil, game.Validation("sage is required")
		}
		return s.SelectSage(ctx, c.userID, p.Sage, p.Decklist)
	},
	"toggle-ready-status": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.ToggleReady(ctx, c.userID)
	},
	"join-team": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p joinTeamPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		return s.JoinTeam(ctx, c.userID, p.Team)
	},
	"clear-teams": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.ClearTeams(ctx, c.userID)
	},
	"start-game": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.StartGame(ctx, c.userID)
	},
	"pick-warriors": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p pickWarriorsPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		return s.ChooseWarriors(ctx, c.userID, p.Warriors)
	},
	"swap-warriors": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.SwapWarriors(ctx, c.userID)
	},
	"cancel-setup": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.CancelSetup(ctx, c.userID)
	},
	"advance-phase": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.AdvancePhase(ctx, c.userID)
	},
	"get-day-break-cards": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.DaybreakCards(ctx, c.userID)
	},
	"activate-day-break": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p spacePayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.Space == nil {
			return nil, game.Validation("space is required")
		}
		return s.ActivateDaybreak(ctx, c.userID, *p.Space)
	},
	"draw-card": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.DrawCard(ctx, c.userID)
	},
	"discard-card": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p discardPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		return s.DiscardCard(ctx, c.userID, p.CardID)
	},
	"remove-card": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p spacePayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		if p.Space == nil {
			return nil, game.Validation("space is required")
		}
		return s.RemoveFromPlay(ctx, c.userID, *p.Space)
	},
	"adjust-gold": func(ctx context.Context, c *conn, s *game.Session, payload json.RawMessage) ([]game.Outbound, error) {
		var p goldPayload
		if err := decode(payload, &p); err != nil {
			return nil, err
		}
		return s.AdjustGold(ctx, c.userID, p.Delta)
	},
	"rejoin-game": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		out, err := s.RejoinGame(ctx, c.userID, c.id)
		if err == nil {
			c.track(s.ID())
		}
		return out, err
	},
	"leave-game": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		out, err := s.LeaveGame(ctx, c.userID)
		if err == nil {
			c.forget(s.ID())
		}
		return out, err
	},
	// The game stays tracked after exit-game so closing the socket still
	// marks the player disconnected.
	"exit-game": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.ExitGame(ctx, c.userID)
	},
	"abandon-game": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		out, err := s.AbandonGame(ctx, c.userID)
		if err == nil {
			c.forget(s.ID())
		}
		return out, err
	},
	"debug": func(ctx context.Context, c *conn, s *game.Session, _ json.RawMessage) ([]game.Outbound, error) {
		return s.Debug(ctx, c.userID)
	},
}

// dispatch resolves the addressed session and runs the named action. It
// returns the game id the events belong to.
func (g *Gateway) dispatch(ctx context.Context, c *conn, in Inbound) (string, []game.Outbound, error) {
	name := strings.TrimSpace(in.Event)
	if name == "create-game" {
		var p createGamePayload
		if err := decode(in.Payload, &p); err != nil {
			return "", nil, err
		}
		s, out, err := g.registry.Create(ctx, c.userID, game.GameConfig{
			Name:     p.Name,
			Capacity: p.Capacity,
			Private:  p.Private,
			Password: p.Password,
		}, c.id)
		if err != nil {
			return "", nil, err
		}
		c.track(s.ID())
		return s.ID(), out, nil
	}

	act, ok := actions[name]
	if !ok {
		return in.GameID, nil, game.Validation("unknown event " + name)
	}
	if in.GameID == "" {
		return "", nil, game.Validation("gameId is required")
	}
	s, err := g.registry.Get(ctx, in.GameID)
	if err != nil {
		return in.GameID, nil, err
	}
	out, err := act(ctx, c, s, in.Payload)
	return in.GameID, out, err
}
