package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/rl"
	"github.com/zeu5/nim-rl/selfplay"
)

func TrainCommand() *cobra.Command {
	var evalGames int
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a policy with self play and report how it does",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policies.NewQLearningPolicy(policies.QLearningConfig{
				Alpha:   alpha,
				Epsilon: epsilon,
				Seed:    seed,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			trainer := selfplay.NewTrainer(&selfplay.TrainerConfig{
				Episodes: episodes,
				Horizon:  horizon,
				Piles:    piles,
				Policy:   policy,
				Progress: true,
			})
			traces := trainer.Run(ctx)

			log.Info().
				Int("episodes", len(traces)).
				Int("states", len(policy.Table().States())).
				Int("entries", policy.Table().Size()).
				Msg("training complete")
			if ctx.Err() != nil {
				return nil
			}

			if savePath != "" {
				recordCurves(traces)
			}

			result, err := selfplay.PlayMatch(&selfplay.MatchConfig{
				Games:     evalGames,
				Piles:     piles,
				Alternate: true,
			}, policy, rl.NewRandomPolicy(seed))
			if err != nil {
				return err
			}
			log.Info().
				Int("games", result.Games).
				Float64("win_rate", result.WinRate(0)).
				Float64("mean_length", result.MeanLength).
				Msg("evaluation against a random opponent")
			return nil
		},
	}
	cmd.Flags().IntVar(&evalGames, "eval-games", 1000, "Games to play against a random opponent after training")
	return cmd
}

// recordCurves writes the training curves of a single policy to the save
// folder.
func recordCurves(traces []*rl.Trace) {
	names := []string{"qlearning"}
	curves := []struct {
		name    string
		title   string
		yLabel  string
		analyze selfplay.Analyzer
	}{
		{"winrate", "First player win rate", "win rate", selfplay.WinRateAnalyzer(window)},
		{"gamelength", "Mean game length", "moves", selfplay.GameLengthAnalyzer(window)},
		{"coverage", "Distinct states visited", "states", selfplay.CoverageAnalyzer()},
	}
	for _, c := range curves {
		datasets := []selfplay.DataSet{c.analyze(traces)}
		selfplay.MultiComparator(
			selfplay.PlotComparator(c.title, c.yLabel, c.name, savePath),
			selfplay.CSVComparator(c.name, savePath),
			selfplay.HTMLChartComparator(c.title, c.name, savePath),
		)(0, names, datasets)
	}
}
