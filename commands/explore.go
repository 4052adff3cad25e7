package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/nim-rl/explorer"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/selfplay"
)

func ExploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Train a policy, then inspect its value table and traces",
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
			if ctx.Err() != nil {
				return nil
			}

			explorer.NewExplorer(policy.Table(), piles, traces).Interact()
			return nil
		},
	}
}
