package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/rl"
	"github.com/zeu5/nim-rl/selfplay"
)

func CompareCommand() *cobra.Command {
	var recordTraces bool
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Train several policies on the same schedule and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			learner, err := policies.NewQLearningPolicy(policies.QLearningConfig{
				Alpha:   alpha,
				Epsilon: epsilon,
				Seed:    seed,
			})
			if err != nil {
				return err
			}
			greedy, err := policies.NewQLearningPolicy(policies.QLearningConfig{
				Alpha:   alpha,
				Epsilon: 0,
				Seed:    seed,
			})
			if err != nil {
				return err
			}

			comparison := selfplay.NewComparison(&selfplay.ComparisonConfig{
				Runs:         runs,
				Episodes:     episodes,
				Horizon:      horizon,
				Piles:        piles,
				SavePath:     savePath,
				Progress:     true,
				RecordTraces: recordTraces,
			})
			comparison.AddExperiment(
				selfplay.NewExperiment("qlearning", learner).
					WithProperty("single-pile-endgame", singlePileMonitor()))
			comparison.AddExperiment(selfplay.NewExperiment("qlearning-greedy", greedy))
			comparison.AddExperiment(selfplay.NewExperiment("softmax", policies.NewSoftMaxQPolicy(alpha, 1, seed)))
			comparison.AddExperiment(selfplay.NewExperiment("random", rl.NewRandomPolicy(seed)))

			comparison.AddAnalysis("winrate", selfplay.WinRateAnalyzer(window), selfplay.MultiComparator(
				selfplay.PlotComparator("First player win rate", "win rate", "winrate", savePath),
				selfplay.CSVComparator("winrate", savePath),
				selfplay.HTMLChartComparator("First player win rate", "winrate", savePath),
				selfplay.SummaryComparator("winrate"),
			))
			comparison.AddAnalysis("gamelength", selfplay.GameLengthAnalyzer(window), selfplay.MultiComparator(
				selfplay.PlotComparator("Mean game length", "moves", "gamelength", savePath),
				selfplay.CSVComparator("gamelength", savePath),
			))
			comparison.AddAnalysis("coverage", selfplay.CoverageAnalyzer(), selfplay.MultiComparator(
				selfplay.PlotComparator("Distinct states visited", "states", "coverage", savePath),
				selfplay.CSVComparator("coverage", savePath),
				selfplay.SummaryComparator("coverage"),
			))

			ctx, cancel := signalContext()
			defer cancel()
			comparison.Run(ctx)
			return nil
		},
	}
	cmd.Flags().BoolVar(&recordTraces, "record-traces", false, "Record every episode to the save folder as jsonl")
	return cmd
}

// singlePileMonitor is satisfied by episodes that reach a board with
// exactly one non-empty pile, the endgame a strong player steers into.
func singlePileMonitor() *rl.Monitor {
	monitor := rl.NewMonitor()
	monitor.Build().
		On(func(_ rl.State, _ rl.Action, ns rl.State) bool {
			state, ok := ns.(nim.State)
			if !ok {
				return false
			}
			nonEmpty := 0
			for _, p := range state.Piles() {
				if p > 0 {
					nonEmpty++
				}
			}
			return nonEmpty == 1
		}, "single-pile").
		MarkSuccess()
	return monitor
}
