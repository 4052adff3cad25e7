package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/nim-rl/policies"
	"github.com/zeu5/nim-rl/selfplay"
	"github.com/zeu5/nim-rl/server"
)

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Train a policy, then serve the play API until interrupted",
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

			server.New(addr, policy, piles).Start(ctx)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:7074", "Listen address of the play API")
	return cmd
}
