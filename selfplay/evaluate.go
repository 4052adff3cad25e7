package selfplay

import (
	"fmt"

	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/rl"
	"gonum.org/v1/gonum/stat"
)

// ActionChooser is the playing surface of a policy. Greedy play passes
// explore false, training and sampling opponents pass true.
type ActionChooser interface {
	ChooseAction(state rl.State, explore bool) (rl.Action, error)
}

// PlayGame plays one game between two choosers, first moving first.
// Returns the winning seat (0 for first, 1 for second) and the trace.
// A board with no objects cannot be played and yields an error.
func PlayGame(first, second ActionChooser, piles []int, explore bool) (int, *rl.Trace, error) {
	game := nim.NewGame(piles)
	seats := [2]ActionChooser{first, second}
	trace := rl.NewTrace()

	for {
		if winner, over := game.Winner(); over {
			return winner, trace, nil
		}
		state := nim.StateOf(game)
		action, err := seats[game.Player].ChooseAction(state, explore)
		if err != nil {
			return 0, trace, fmt.Errorf("seat %d: %w", game.Player, err)
		}
		move, ok := action.(nim.Move)
		if !ok {
			return 0, trace, fmt.Errorf("seat %d: action %s is not a nim move", game.Player, action.Hash())
		}
		if err := game.Apply(move); err != nil {
			return 0, trace, fmt.Errorf("seat %d: %w", game.Player, err)
		}
		trace.Append(state, action, nim.StateOf(game))
	}
}

type MatchConfig struct {
	Games int
	Piles []int
	// Alternate lets both choosers move first equally often
	Alternate bool
	// Explore has the choosers sample instead of playing their best line
	Explore bool
}

// MatchResult tallies a series of games between two choosers. Wins is
// indexed by chooser, not by seat.
type MatchResult struct {
	Games      int
	Wins       [2]int
	MeanLength float64
}

func (r *MatchResult) WinRate(chooser int) float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins[chooser]) / float64(r.Games)
}

// PlayMatch plays a series of games between a and b and tallies the wins
// per chooser.
func PlayMatch(config *MatchConfig, a, b ActionChooser) (*MatchResult, error) {
	result := &MatchResult{}
	lengths := make([]float64, 0, config.Games)

	for g := 0; g < config.Games; g++ {
		first, second := a, b
		swapped := config.Alternate && g%2 == 1
		if swapped {
			first, second = b, a
		}
		winner, trace, err := PlayGame(first, second, config.Piles, config.Explore)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", g, err)
		}
		if swapped {
			winner = 1 - winner
		}
		result.Wins[winner]++
		result.Games++
		lengths = append(lengths, float64(trace.Len()))
	}

	if len(lengths) > 0 {
		result.MeanLength = stat.Mean(lengths, nil)
	}
	return result, nil
}
