package game

import "fmt"

// Phase is the lifecycle stage of a game session.
type Phase int

const (
	PhaseJoiningGame Phase = iota
	PhaseSageSelection
	PhaseJoiningTeams
	PhaseReadyUp
	PhaseWarriorSelection
	PhaseSetupComplete
	PhasePhase1
	PhasePhase2
	PhasePhase3
	PhaseResolveDaybreakCards
	PhaseDiscardingCards
	PhaseDrawingNewHand
	PhaseEndGame
	PhaseGameFinished
)

var phaseNames = [...]string{
	PhaseJoiningGame:          "JOINING_GAME",
	PhaseSageSelection:        "SAGE_SELECTION",
	PhaseJoiningTeams:         "JOINING_TEAMS",
	PhaseReadyUp:              "READY_UP",
	PhaseWarriorSelection:     "WARRIOR_SELECTION",
	PhaseSetupComplete:        "SETUP_COMPLETE",
	PhasePhase1:               "PHASE1",
	PhasePhase2:               "PHASE2",
	PhasePhase3:               "PHASE3",
	PhaseResolveDaybreakCards: "RESOLVE_DAYBREAK_CARDS",
	PhaseDiscardingCards:      "DISCARDING_CARDS",
	PhaseDrawingNewHand:       "DRAWING_NEW_HAND",
	PhaseEndGame:              "END_GAME",
	PhaseGameFinished:         "GAME_FINISHED",
}

func (p Phase) valid() bool {
	return p >= PhaseJoiningGame && p <= PhaseGameFinished
}

func (p Phase) String() string {
	if !p.valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase resolves a phase from its wire name.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// IsSetup reports whether p belongs to the pre-game setup group.
func (p Phase) IsSetup() bool {
	return p >= PhaseJoiningGame && p <= PhaseReadyUp
}

// IsGameplay reports whether p belongs to the gameplay group.
func (p Phase) IsGameplay() bool {
	return p >= PhaseWarriorSelection && p <= PhaseGameFinished
}

// inPlay covers the phases in which cards move between hand, deck and discard.
func (p Phase) inPlay() bool {
	return p >= PhasePhase1 && p <= PhaseDrawingNewHand
}

// Trigger names the condition that moves a game out of its current phase.
type Trigger string

const (
	TriggerGameFull          Trigger = "game-full"
	TriggerAllSagesSelected  Trigger = "all-sages-selected"
	TriggerAllTeamsJoined    Trigger = "all-teams-joined"
	TriggerHostStart         Trigger = "host-start"
	TriggerAllWarriorsChosen Trigger = "all-warriors-chosen"
	TriggerBeginPlay         Trigger = "begin-play"
	TriggerAdvance           Trigger = "advance"
	TriggerEndReached        Trigger = "end-reached"
	TriggerFinish            Trigger = "finish"
)

type transitionKey struct {
	from    Phase
	trigger Trigger
}

var transitions = map[transitionKey]Phase{
	{PhaseJoiningGame, TriggerGameFull}:               PhaseSageSelection,
	{PhaseSageSelection, TriggerAllSagesSelected}:     PhaseJoiningTeams,
	{PhaseJoiningTeams, TriggerAllTeamsJoined}:        PhaseReadyUp,
	{PhaseReadyUp, TriggerHostStart}:                  PhaseWarriorSelection,
	{PhaseWarriorSelection, TriggerAllWarriorsChosen}: PhaseSetupComplete,
	{PhaseSetupComplete, TriggerBeginPlay}:            PhasePhase1,
	{PhasePhase1, TriggerAdvance}:                     PhasePhase2,
	{PhasePhase2, TriggerAdvance}:                     PhasePhase3,
	{PhasePhase3, TriggerAdvance}:                     PhaseResolveDaybreakCards,
	{PhaseResolveDaybreakCards, TriggerAdvance}:       PhaseDiscardingCards,
	{PhaseDiscardingCards, TriggerAdvance}:            PhaseDrawingNewHand,
	{PhaseDrawingNewHand, TriggerAdvance}:             PhasePhase1,
	{PhaseDrawingNewHand, TriggerEndReached}:          PhaseEndGame,
	{PhaseEndGame, TriggerFinish}:                     PhaseGameFinished,
}

// Next returns the phase reached from p by trigger t, or a validation error
// when the table has no such edge.
func Next(p Phase, t Trigger) (Phase, error) {
	to, ok := transitions[transitionKey{p, t}]
	if !ok {
		return p, Validation(fmt.Sprintf("%s is not allowed during %s", t, p))
	}
	return to, nil
}
