// Package nim implements the pile game the agents learn to play. A game
// holds a row of piles, two players alternately remove objects from a single
// pile, and the win check runs after the turn switch: the player left to
// move once the board is empty is the winner.
package nim

import (
	"errors"
	"fmt"
)

// ErrGameAlreadyOver is returned by Apply once a winner is set. Hitting it
// means the caller did not check the winner before moving.
var ErrGameAlreadyOver = errors.New("nim: game already over")

// InvalidMoveError rejects a move whose pile index or count is out of the
// legal range. The game is left untouched.
type InvalidMoveError struct {
	Move  Move
	Piles []int
}

func (e *InvalidMoveError) Error() string {
	if e.Move.Pile < 0 || e.Move.Pile >= len(e.Piles) {
		return fmt.Sprintf("nim: no pile %d in %v", e.Move.Pile, e.Piles)
	}
	return fmt.Sprintf("nim: cannot take %d from pile %d holding %d", e.Move.Count, e.Move.Pile, e.Piles[e.Move.Pile])
}

// Move removes Count objects from pile Pile. Moves are value objects, equal
// pairs are interchangeable as table keys.
type Move struct {
	Pile  int `json:"pile"`
	Count int `json:"count"`
}

func (m Move) Hash() string {
	return fmt.Sprintf("(%d, %d)", m.Pile, m.Count)
}

func (m Move) String() string {
	return fmt.Sprintf("take %d from pile %d", m.Count, m.Pile)
}

// DefaultPiles returns the standard starting configuration.
func DefaultPiles() []int {
	return []int{1, 3, 5, 7}
}

// Game is the mutable board state of a single play-through.
type Game struct {
	Piles  []int
	Player int

	winner int
	won    bool
}

// NewGame starts a game with a copy of the given piles, nil or empty means
// DefaultPiles. Player 0 moves first.
func NewGame(piles []int) *Game {
	if len(piles) == 0 {
		piles = DefaultPiles()
	}
	own := make([]int, len(piles))
	copy(own, piles)
	return &Game{
		Piles:  own,
		Player: 0,
	}
}

// Winner returns the winning player once the board is empty.
func (g *Game) Winner() (int, bool) {
	return g.winner, g.won
}

// Over reports whether a winner is set.
func (g *Game) Over() bool {
	return g.won
}

// AvailableMoves enumerates every legal move over the given piles: (i, j)
// for each pile i and every count j from 1 up to the pile size. Empty iff
// all piles are zero. Callers must not depend on the order.
func AvailableMoves(piles []int) []Move {
	total := 0
	for _, p := range piles {
		total += p
	}
	moves := make([]Move, 0, total)
	for i, p := range piles {
		for j := 1; j <= p; j++ {
			moves = append(moves, Move{Pile: i, Count: j})
		}
	}
	return moves
}

// Moves enumerates the legal moves of the current position.
func (g *Game) Moves() []Move {
	return AvailableMoves(g.Piles)
}

// Apply validates and plays a move: the pile shrinks by the count, the turn
// switches, and if the board is now empty the new active player is the
// winner. A failed validation leaves the game unchanged.
func (g *Game) Apply(m Move) error {
	if g.won {
		return ErrGameAlreadyOver
	}
	if m.Pile < 0 || m.Pile >= len(g.Piles) {
		return &InvalidMoveError{Move: m, Piles: g.snapshot()}
	}
	if m.Count < 1 || m.Count > g.Piles[m.Pile] {
		return &InvalidMoveError{Move: m, Piles: g.snapshot()}
	}

	g.Piles[m.Pile] -= m.Count
	g.Player = 1 - g.Player

	empty := true
	for _, p := range g.Piles {
		if p != 0 {
			empty = false
			break
		}
	}
	if empty {
		g.winner = g.Player
		g.won = true
	}
	return nil
}

func (g *Game) snapshot() []int {
	piles := make([]int, len(g.Piles))
	copy(piles, g.Piles)
	return piles
}
