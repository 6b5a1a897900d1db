package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullSetupScenario(t *testing.T) {
	reg := newTestRegistry(t, nil)
	s, rec := setupToReady(t, reg)
	ctx := context.Background()

	rec.ok(s.StartGame(ctx, "h"))

	assert := assert.New(t)
	assert.Equal(PhaseWarriorSelection, s.View().Phase)
	assert.Equal(4, countEvents(rec.out, EventPlayerJoined))
	assert.Equal(1, countEvents(rec.out, EventAllSagesSelected))
	assert.Equal(1, countEvents(rec.out, EventAllTeamsJoined))
	assert.Equal(1, phaseChangesTo(rec.out, PhaseWarriorSelection))
	assert.Equal(4, countEvents(rec.out, EventHandUpdated))

	last := rec.out[len(rec.out)-1]
	assert.Equal(EventPhaseChanged, last.Event)
	assert.ElementsMatch([]string{"h", "u2", "u3", "u4"}, last.Targets)
}

func TestJoinGameCapacity(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "full house", Capacity: 4}, "")
	require.NoError(t, err)

	for _, u := range []string{"h", "u2", "u3", "u4"} {
		_, err := s.JoinGame(ctx, u, "", "")
		require.NoError(t, err, u)
	}
	_, err = s.JoinGame(ctx, "u5", "", "")
	require.ErrorIs(t, err, ErrValidation)

	g := s.Game()
	assert.Len(t, g.Players, 4)
	assert.Equal(t, PhaseSageSelection, g.Phase)
	for _, team := range g.Teams {
		assert.LessOrEqual(t, len(team.PlayerIDs), team.Size)
	}
}

func TestJoinGameAssignsTeamOneFirst(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "order", Capacity: 4}, "")
	require.NoError(t, err)

	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u3", "", "")
	require.NoError(t, err)

	g := s.Game()
	assert.Equal(t, []string{"h", "u2"}, g.Teams[0].PlayerIDs)
	assert.Equal(t, []string{"u3"}, g.Teams[1].PlayerIDs)
}

func TestCreateGameValidation(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		host string
		cfg  GameConfig
	}{
		{"missing name", "h", GameConfig{Capacity: 2}},
		{"bad capacity", "h", GameConfig{Name: "x", Capacity: 3}},
		{"private without password", "h", GameConfig{Name: "x", Capacity: 2, Private: true}},
		{"missing host", "", GameConfig{Name: "x", Capacity: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := reg.Create(ctx, tc.host, tc.cfg, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, 0, reg.Len())
}

func TestPrivateGamePassword(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "secret", Capacity: 2, Private: true, Password: "hunter2"}, "")
	require.NoError(t, err)

	_, err = s.JoinGame(ctx, "u2", "wrong", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.JoinGame(ctx, "u2", "hunter2", "")
	assert.NoError(t, err)
	assert.Equal(t, "plain:hunter2", s.Game().PasswordHash)
}

func TestSelectSageLastWriteWinsThenLocks(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "duel", Capacity: 2}, "")
	require.NoError(t, err)

	_, err = s.SelectSage(ctx, "h", "Ember", "")
	assert.ErrorIs(t, err, ErrValidation, "sage selection has not opened yet")

	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)

	_, err = s.SelectSage(ctx, "h", "Ember", "")
	require.NoError(t, err)
	_, err = s.SelectSage(ctx, "h", "Tide", "")
	require.NoError(t, err)
	assert.Equal(t, "Tide", s.Game().Players["h"].Sage)

	_, err = s.SelectSage(ctx, "u2", "Unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SelectSage(ctx, "u2", "Ember", "Tide-starter")
	assert.ErrorIs(t, err, ErrValidation, "decklist belongs to another sage")

	out, err := s.SelectSage(ctx, "u2", "Ember", "")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventAllSagesSelected))
	assert.Equal(t, PhaseJoiningTeams, s.View().Phase)

	_, err = s.SelectSage(ctx, "h", "Ember", "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestJoinTeamNeverExceedsSize(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "teams", Capacity: 4}, "")
	require.NoError(t, err)
	for _, u := range []string{"u2", "u3", "u4"} {
		_, err := s.JoinGame(ctx, u, "", "")
		require.NoError(t, err)
	}
	for _, u := range []string{"h", "u2", "u3", "u4"} {
		_, err := s.SelectSage(ctx, u, "Ember", "")
		require.NoError(t, err)
	}
	require.Equal(t, PhaseJoiningTeams, s.View().Phase)

	attempts := []struct {
		user string
		team int
	}{
		{"h", 1}, {"u2", 1}, {"u3", 1}, {"u4", 1}, {"u3", 2}, {"h", 2}, {"u2", 2}, {"u4", 9},
	}
	for _, a := range attempts {
		_, _ = s.JoinTeam(ctx, a.user, a.team)
		for _, team := range s.Game().Teams {
			assert.LessOrEqual(t, len(team.PlayerIDs), team.Size)
		}
	}
}

func TestJoinTeamFullAndClear(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "duel", Capacity: 2}, "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)
	for _, u := range []string{"h", "u2"} {
		_, err := s.SelectSage(ctx, u, "Tide", "")
		require.NoError(t, err)
	}

	_, err = s.JoinTeam(ctx, "h", 1)
	require.NoError(t, err)
	_, err = s.JoinTeam(ctx, "u2", 1)
	assert.ErrorIs(t, err, ErrValidation)

	out, err := s.ClearTeams(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventTeamsCleared))
	assert.Empty(t, s.Game().Teams[0].PlayerIDs)

	_, err = s.JoinTeam(ctx, "u2", 1)
	require.NoError(t, err)
	out, err = s.JoinTeam(ctx, "h", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventAllTeamsJoined))
	assert.Equal(t, PhaseReadyUp, s.View().Phase)
}

func TestConcurrentJoinTeamLastSlot(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "race", Capacity: 2}, "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)
	for _, u := range []string{"h", "u2"} {
		_, err := s.SelectSage(ctx, u, "Ember", "")
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, u := range []string{"h", "u2"} {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			_, errs[i] = s.JoinTeam(ctx, u, 1)
		}(i, u)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, KindOf(err) == KindValidation || KindOf(err) == KindConflict, err.Error())
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, s.Game().Teams[0].PlayerIDs, 1)
}

func TestToggleReadyAndStartRules(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _ := setupToReady(t, reg)

	out, err := s.ToggleReady(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventNotReady))

	_, err = s.StartGame(ctx, "h")
	assert.ErrorIs(t, err, ErrValidation, "u4 is not ready")

	out, err = s.ToggleReady(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventReady))

	_, err = s.StartGame(ctx, "u2")
	assert.ErrorIs(t, err, ErrValidation, "only the host starts")

	_, err = s.StartGame(ctx, "h")
	require.NoError(t, err)
	for _, p := range s.Game().Players {
		assert.Len(t, p.Hand, 5)
		assert.Equal(t, 12, p.CardCount())
	}
}

func TestWarriorSelectionFlow(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _ := setupToReady(t, reg)
	_, err := s.StartGame(ctx, "h")
	require.NoError(t, err)

	_, err = s.ChooseWarriors(ctx, "h", []CardID{"w1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.ChooseWarriors(ctx, "h", []CardID{"w1", "w1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.ChooseWarriors(ctx, "h", []CardID{"w1", "w2"})
	require.NoError(t, err)
	_, err = s.SwapWarriors(ctx, "h")
	require.NoError(t, err)
	field := s.Game().Teams[0].Battlefield
	assert.Equal(t, CardID("w2"), field.Spaces[0].CardID)
	assert.Equal(t, CardID("w1"), field.Spaces[1].CardID)

	_, err = s.CancelSetup(ctx, "h")
	require.NoError(t, err)
	assert.Nil(t, s.Game().Teams[0].Battlefield.Spaces[0])
	_, err = s.SwapWarriors(ctx, "h")
	assert.ErrorIs(t, err, ErrValidation)

	rec := &recorder{t: t}
	rec.ok(s.ChooseWarriors(ctx, "h", []CardID{"w1", "w2"}))
	rec.ok(s.ChooseWarriors(ctx, "u2", []CardID{"w3", "w4"}))
	rec.ok(s.ChooseWarriors(ctx, "u3", []CardID{"w5", "w6"}))
	assert.Equal(t, PhaseWarriorSelection, s.View().Phase)
	rec.ok(s.ChooseWarriors(ctx, "u4", []CardID{"w7", "w8"}))

	assert.Equal(t, 1, countEvents(rec.out, EventAllPlayersSetup))
	assert.Equal(t, 1, phaseChangesTo(rec.out, PhaseSetupComplete))
	assert.Equal(t, 1, phaseChangesTo(rec.out, PhasePhase1))
	assert.Equal(t, 1, countEvents(rec.out, EventStartTurn))
	assert.Equal(t, 1, countEvents(rec.out, EventWaitingTurn))

	view := s.View()
	assert.Equal(t, PhasePhase1, view.Phase)
	assert.Equal(t, 1, view.Round)
}

func TestDrawEmptyDeck(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	for i := 0; i < 7; i++ {
		_, err := s.DrawCard(ctx, "h")
		require.NoError(t, err)
	}
	before := s.Game().Players["h"]
	require.Empty(t, before.Deck)

	_, err := s.DrawCard(ctx, "h")
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, KindNotFound, gerr.Kind)
	assert.Equal(t, "deck", gerr.Resource)

	after := s.Game().Players["h"]
	assert.Equal(t, before.Hand, after.Hand)
	assert.Equal(t, before.Discard, after.Discard)
}

func TestDrawDiscardConservesCards(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	total := s.Game().Players["u2"].CardCount()
	for i := 0; i < 20; i++ {
		p := s.Game().Players["u2"]
		if i%3 == 0 && len(p.Hand) > 0 {
			_, err := s.DiscardCard(ctx, "u2", p.Hand[0])
			require.NoError(t, err)
		} else {
			_, _ = s.DrawCard(ctx, "u2")
		}
		assert.Equal(t, total, s.Game().Players["u2"].CardCount())
	}

	_, err := s.DiscardCard(ctx, "u2", "not-in-hand")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, total, s.Game().Players["u2"].CardCount())
}

func TestConcurrentDrawAndDiscardConserveCards(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	start := s.Game().Players["u2"]
	total := start.CardCount()
	all := append(append(append([]CardID{}, start.Hand...), start.Deck...), start.Discard...)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if (i+j)%2 == 0 {
					_, _ = s.DrawCard(ctx, "u2")
				} else if p := s.Game().Players["u2"]; len(p.Hand) > 0 {
					_, _ = s.DiscardCard(ctx, "u2", p.Hand[len(p.Hand)-1])
				}
				assert.Equal(t, total, s.Game().Players["u2"].CardCount())
			}
		}(i)
	}
	wg.Wait()

	end := s.Game().Players["u2"]
	assert.Equal(t, total, end.CardCount())
	assert.ElementsMatch(t, all, append(append(append([]CardID{}, end.Hand...), end.Deck...), end.Discard...))
}

func TestRemoveFromPlay(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	field := s.Game().Teams[1].Battlefield
	owned := field.ownedBy("u2")
	require.Len(t, owned, 2)
	space := owned[0]
	card := field.Spaces[space].CardID

	out, err := s.RemoveFromPlay(ctx, "u2", space)
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventCardRemoved))

	team := s.Game().Teams[1]
	assert.Nil(t, team.Battlefield.Spaces[space])
	assert.Equal(t, []CardID{card}, team.Removed)
	assert.Equal(t, []CardID{card}, s.View().Teams[1].Removed)

	_, err = s.RemoveFromPlay(ctx, "u2", space)
	assert.ErrorIs(t, err, ErrValidation, "space is already empty")
	_, err = s.RemoveFromPlay(ctx, "u2", BattlefieldSpaces)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []CardID{card}, s.Game().Teams[1].Removed)
}

func TestDaybreakActivationOncePerRound(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	_, err := s.ActivateDaybreak(ctx, "h", 0)
	assert.ErrorIs(t, err, ErrValidation, "not the daybreak phase yet")

	for i := 0; i < 3; i++ {
		_, err := s.AdvancePhase(ctx, "h")
		require.NoError(t, err)
	}
	require.Equal(t, PhaseResolveDaybreakCards, s.View().Phase)

	_, err = s.ActivateDaybreak(ctx, "h", 0)
	require.NoError(t, err)
	_, err = s.ActivateDaybreak(ctx, "h", 0)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.ActivateDaybreak(ctx, "h", 5)
	assert.ErrorIs(t, err, ErrValidation, "empty space")
	_, err = s.ActivateDaybreak(ctx, "h", BattlefieldSpaces)
	assert.ErrorIs(t, err, ErrValidation)

	out, err := s.DaybreakCards(ctx, "h")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"h"}, out[0].Targets)
	cards := out[0].Payload.(DaybreakCards)
	assert.Equal(t, []int{0, 1}, cards.Indexes)
	assert.Equal(t, []int{0}, cards.Activated)
}

func TestRoundLoopAndEndGame(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	_, err := s.AdvancePhase(ctx, "u2")
	assert.ErrorIs(t, err, ErrValidation, "only the host advances")

	want := []Phase{
		PhasePhase2, PhasePhase3, PhaseResolveDaybreakCards,
		PhaseDiscardingCards, PhaseDrawingNewHand, PhasePhase1,
	}
	for _, phase := range want {
		_, err := s.AdvancePhase(ctx, "h")
		require.NoError(t, err)
		assert.Equal(t, phase, s.View().Phase)
	}
	view := s.View()
	assert.Equal(t, 2, view.Round)
	assert.Equal(t, 2, view.FirstTeam)
	assert.Equal(t, 2, view.Teams[0].Gold)

	var out []Outbound
	for i := 0; i < 6; i++ {
		out, err = s.AdvancePhase(ctx, "h")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, phaseChangesTo(out, PhaseEndGame))
	assert.Equal(t, 1, phaseChangesTo(out, PhaseGameFinished))
	assert.Equal(t, 1, countEvents(out, EventGameFinished))

	_, err = reg.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound, "finished games leave the registry")
	_, err = s.AdvancePhase(ctx, "h")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefillReportsExhaustion(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	hand := s.Game().Players["h"].Hand
	for _, c := range hand {
		_, err := s.DiscardCard(ctx, "h", c)
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := s.DrawCard(ctx, "h")
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		p := s.Game().Players["h"]
		_, err := s.DiscardCard(ctx, "h", p.Hand[0])
		require.NoError(t, err)
	}

	var out []Outbound
	for i := 0; i < 5; i++ {
		var err error
		out, err = s.AdvancePhase(ctx, "h")
		require.NoError(t, err)
	}
	require.Equal(t, PhaseDrawingNewHand, s.View().Phase)
	assert.Equal(t, 1, countEvents(out, EventDeckExhausted))
	assert.Empty(t, s.Game().Players["h"].Hand)
	assert.Len(t, s.Game().Players["u2"].Hand, 5)
}

func TestAdjustGoldBounds(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	_, err := s.AdjustGold(ctx, "h", -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.AdjustGold(ctx, "h", 50)
	require.NoError(t, err)
	assert.Equal(t, 12, s.View().Teams[0].Gold)
	assert.Equal(t, 12, s.View().Teams[0].MaxGold)

	_, err = s.AdjustGold(ctx, "h", -5)
	require.NoError(t, err)
	assert.Equal(t, 7, s.View().Teams[0].Gold)
}

func TestRejoinReturnsSnapshotAtDisconnectPhase(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)
	_, err := s.AdvancePhase(ctx, "h")
	require.NoError(t, err)

	_, err = s.Disconnect(ctx, "u2", "c-u2")
	require.NoError(t, err)
	phase := s.View().Phase
	assert.False(t, s.Game().Players["u2"].Connected)
	assert.Contains(t, s.Game().Players, "u2", "player entry is retained")

	out, err := s.RejoinGame(ctx, "u2", "c-u2-new")
	require.NoError(t, err)
	require.Equal(t, EventGameSnapshot, out[0].Event)
	assert.Equal(t, []string{"u2"}, out[0].Targets)
	snap := out[0].Payload.(Snapshot)
	assert.Equal(t, phase, snap.State.Phase)
	assert.Equal(t, s.Game().Players["u2"].Hand, snap.Hand)
	assert.Equal(t, 1, countEvents(out, EventPlayerRejoined))
	assert.True(t, s.Game().Players["u2"].Connected)

	_, err = s.Disconnect(ctx, "u2", "c-u2")
	require.NoError(t, err)
	assert.True(t, s.Game().Players["u2"].Connected, "stale handle does not disconnect the new one")

	_, err = s.RejoinGame(ctx, "stranger", "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveGameMigratesHostAndDestroys(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "leavers", Capacity: 4}, "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)

	out, err := s.LeaveGame(ctx, "h")
	require.NoError(t, err)
	require.Equal(t, 1, countEvents(out, EventPlayerLeft))
	assert.ElementsMatch(t, []string{"h", "u2"}, out[0].Targets)

	g := s.Game()
	assert.Equal(t, "u2", g.HostID)
	assert.True(t, g.Players["u2"].IsHost)
	assert.Equal(t, []string{"u2"}, g.Teams[0].PlayerIDs)

	_, err = s.JoinGame(ctx, "u3", "", "")
	require.NoError(t, err, "freed slot can be reused")

	_, err = s.LeaveGame(ctx, "u2")
	require.NoError(t, err)
	_, err = s.LeaveGame(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
	_, err = reg.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveDuringSageSelectionAdvances(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "quitter", Capacity: 4}, "")
	require.NoError(t, err)
	for _, u := range []string{"u2", "u3", "u4"} {
		_, err := s.JoinGame(ctx, u, "", "")
		require.NoError(t, err)
	}
	for _, u := range []string{"h", "u2", "u3"} {
		_, err := s.SelectSage(ctx, u, "Ember", "")
		require.NoError(t, err)
	}
	out, err := s.LeaveGame(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventAllSagesSelected))
	assert.Equal(t, PhaseJoiningTeams, s.View().Phase)
}

func TestExitGameChangesNothing(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _ := setupToReady(t, reg)
	before := s.Game()

	out, err := s.ExitGame(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, before, s.Game())

	_, err = s.ExitGame(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAbandonGame(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)
	_, err := s.AbandonGame(ctx, "h")
	assert.ErrorIs(t, err, ErrValidation, "game already under way")

	s2, _, err := reg.Create(ctx, "h2", GameConfig{Name: "short", Capacity: 2}, "")
	require.NoError(t, err)
	_, err = s2.AbandonGame(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	out, err := s2.AbandonGame(ctx, "h2")
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(out, EventGameAbandoned))
	_, err = reg.Get(ctx, s2.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDebugRepliesToCallerOnly(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s := setupToPlay(t, reg)

	out, err := s.Debug(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"u2"}, out[0].Targets)

	state, ok := out[0].Payload.(DebugState)
	require.True(t, ok)
	own := s.Game().Players["u2"]
	assert.Equal(t, PhasePhase1, state.State.Phase)
	assert.Equal(t, own.Hand, state.Hand)
	assert.Equal(t, "c-u2", state.ConnID)

	raw, err := json.Marshal(out[0].Payload)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Ember-starter-", "host cards stay hidden")
}

func TestDebugHidesPassword(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "vault", Capacity: 2, Private: true, Password: "hunter2"}, "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u2", "hunter2", "")
	require.NoError(t, err)

	out, err := s.Debug(ctx, "u2")
	require.NoError(t, err)
	raw, err := json.Marshal(out[0].Payload)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
	assert.NotContains(t, string(raw), "passwordHash")
}

type panickingContent struct{ fakeContent }

func (panickingContent) GetDecklist(context.Context, string) (Decklist, error) {
	panic("content store exploded")
}

func TestPanicLeavesStateUntouched(t *testing.T) {
	reg := NewRegistry(Options{Content: panickingContent{}, Passwords: plainPasswords{}})
	ctx := context.Background()
	s, _, err := reg.Create(ctx, "h", GameConfig{Name: "boom", Capacity: 2}, "")
	require.NoError(t, err)
	_, err = s.JoinGame(ctx, "u2", "", "")
	require.NoError(t, err)
	before := s.Game()

	_, err = s.SelectSage(ctx, "h", "Ember", "")
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, before, s.Game())

	_, err = s.JoinGame(ctx, "h", "", "")
	assert.NoError(t, err, "session keeps serving after an aborted action")
}

func TestSessionsRunIndependently(t *testing.T) {
	reg := newTestRegistry(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			host := fmt.Sprintf("host-%d", i)
			s, _, err := reg.Create(ctx, host, GameConfig{Name: host, Capacity: 2}, "")
			if !assert.NoError(t, err) {
				return
			}
			_, err = s.JoinGame(ctx, fmt.Sprintf("guest-%d", i), "", "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, reg.Len())
	assert.Len(t, reg.List(false), 8)
	assert.Empty(t, reg.List(true))
}
