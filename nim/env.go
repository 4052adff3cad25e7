package nim

import (
	"strconv"
	"strings"

	"github.com/zeu5/nim-rl/rl"
)

// State is an immutable snapshot of the piles. The active player is not part
// of the key: both self-play seats read and write one shared table keyed on
// the pile configuration alone.
type State struct {
	piles []int
}

var _ rl.State = State{}

// NewState snapshots the given pile configuration.
func NewState(piles []int) State {
	own := make([]int, len(piles))
	copy(own, piles)
	return State{piles: own}
}

// StateOf snapshots the current position of a game.
func StateOf(g *Game) State {
	return State{piles: g.snapshot()}
}

func (s State) Hash() string {
	parts := make([]string, len(s.piles))
	for i, p := range s.piles {
		parts[i] = strconv.Itoa(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s State) Actions() []rl.Action {
	moves := AvailableMoves(s.piles)
	actions := make([]rl.Action, len(moves))
	for i, m := range moves {
		actions[i] = m
	}
	return actions
}

// Piles returns a copy of the snapshot.
func (s State) Piles() []int {
	piles := make([]int, len(s.piles))
	copy(piles, s.piles)
	return piles
}

// Terminal reports whether all piles are empty.
func (s State) Terminal() bool {
	for _, p := range s.piles {
		if p != 0 {
			return false
		}
	}
	return true
}

// Environment adapts a game to the rl interfaces for episode runners that
// drive a single policy through the state space.
type Environment struct {
	initial []int
	game    *Game
}

var _ rl.Environment = &Environment{}

func NewEnvironment(piles []int) *Environment {
	if len(piles) == 0 {
		piles = DefaultPiles()
	}
	own := make([]int, len(piles))
	copy(own, piles)
	return &Environment{
		initial: own,
		game:    NewGame(own),
	}
}

func (e *Environment) Reset() rl.State {
	e.game = NewGame(e.initial)
	return StateOf(e.game)
}

func (e *Environment) Step(a rl.Action) rl.State {
	m := a.(Move)
	if err := e.game.Apply(m); err != nil {
		// actions come from State.Actions, a rejected one is a harness bug
		panic(err)
	}
	return StateOf(e.game)
}

// Game exposes the live game for winner inspection.
func (e *Environment) Game() *Game {
	return e.game
}
