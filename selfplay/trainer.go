// Package selfplay trains and evaluates policies by letting them play
// both seats of a nim game. Both seats share one policy, so the value
// table sees the board from whichever side is about to move.
package selfplay

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/rl"
)

type TrainerConfig struct {
	Episodes int
	// Horizon bounds the episode length, 0 derives it from the board
	Horizon int
	// Piles of the starting board, nil for the default board
	Piles  []int
	Policy rl.Policy
	// Progress draws a terminal bar while training
	Progress bool
}

// Trainer runs self-play episodes against a nim environment and feeds
// rewards back into the policy.
type Trainer struct {
	config  *TrainerConfig
	policy  rl.Policy
	env     *nim.Environment
	horizon int
	traces  []*rl.Trace
}

func NewTrainer(config *TrainerConfig) *Trainer {
	horizon := config.Horizon
	if horizon <= 0 {
		// every move removes at least one object
		for _, p := range nim.NewGame(config.Piles).Piles {
			horizon += p
		}
	}
	return &Trainer{
		config:  config,
		policy:  config.Policy,
		env:     nim.NewEnvironment(config.Piles),
		horizon: horizon,
		traces:  make([]*rl.Trace, 0, config.Episodes),
	}
}

// Run plays the configured number of episodes and returns their traces.
// Stops early when the context is cancelled.
func (t *Trainer) Run(ctx context.Context) []*rl.Trace {
	var bar *progressbar.ProgressBar
	if t.config.Progress {
		bar = progressbar.Default(int64(t.config.Episodes), "training")
	}
	start := time.Now()

	for i := 0; i < t.config.Episodes; i++ {
		select {
		case <-ctx.Done():
			return t.traces
		default:
		}
		t.traces = append(t.traces, t.runEpisode(i))
		if bar != nil {
			bar.Add(1)
		}
	}

	if t.config.Progress {
		log.Info().
			Int("episodes", len(t.traces)).
			Dur("took", time.Since(start)).
			Msg("training done")
	}
	return t.traces
}

type pendingMove struct {
	state  rl.State
	action rl.Action
	ok     bool
}

// runEpisode plays one game with the policy on both seats. The move that
// empties the board loses, so it is scored -1 and the winner's previous
// move is credited with 1. Every other move is scored 0 once the opponent
// has replied, chaining the value estimates backwards through the game.
func (t *Trainer) runEpisode(episode int) *rl.Trace {
	t.env.Reset()
	game := t.env.Game()
	trace := rl.NewTrace()

	var last [2]pendingMove

	for i := 0; i < t.horizon; i++ {
		state := nim.StateOf(game)
		actions := state.Actions()
		if len(actions) == 0 {
			break
		}
		action, ok := t.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		last[game.Player] = pendingMove{state: state, action: action, ok: true}

		t.env.Step(action)
		next := nim.StateOf(game)
		trace.Append(state, action, next)

		if winner, over := game.Winner(); over {
			t.policy.Update(i, state, action, next, -1)
			// the winner has no previous move when the game ends on move one
			if prev := last[winner]; prev.ok {
				t.policy.Update(i, prev.state, prev.action, next, 1)
			}
			break
		}
		if prev := last[game.Player]; prev.ok {
			t.policy.Update(i, prev.state, prev.action, next, 0)
		}
	}

	t.policy.UpdateEpisode(episode, trace)
	return trace
}

// Traces returns the traces collected so far.
func (t *Trainer) Traces() []*rl.Trace {
	return t.traces
}
