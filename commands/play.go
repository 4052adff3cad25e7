package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/nim-rl/explorer"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/selfplay"
)

func PlayCommand() *cobra.Command {
	var humanPlayer int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Train a policy, then play against it on the terminal",
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
			trainer.Run(ctx)
			if ctx.Err() != nil {
				return nil
			}

			return explorer.NewPlaySession(policy, piles, humanPlayer, seed).Run()
		},
	}
	cmd.Flags().IntVar(&humanPlayer, "human", -1, "Your seat, 0 moves first, 1 moves second, -1 draws one at random")
	return cmd
}
