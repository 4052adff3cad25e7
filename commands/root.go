package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	episodes int
	horizon  int
	window   int
	savePath string
	runs     int
	piles    []int
	alpha    float64
	epsilon  float64
	seed     int64
	debug    bool
)

func GetRootCommand() *cobra.Command {
	cfg, err := LoadEnvConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read environment config")
	}

	rootCommand := &cobra.Command{
		Use:   "nim-rl",
		Short: "Train and play nim with tabular reinforcement learning",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", cfg.Episodes, "Number of training episodes")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", cfg.Horizon, "Horizon of each episode, 0 derives it from the board")
	rootCommand.PersistentFlags().IntVar(&window, "window", cfg.Window, "Trailing window for win rate and game length curves")
	rootCommand.PersistentFlags().StringVarP(&savePath, "save", "s", cfg.SavePath, "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", cfg.Runs, "Number of experiment runs")
	rootCommand.PersistentFlags().IntSliceVarP(&piles, "piles", "p", cfg.Piles, "Starting piles of the board")
	rootCommand.PersistentFlags().Float64Var(&alpha, "alpha", cfg.Alpha, "Learning rate")
	rootCommand.PersistentFlags().Float64Var(&epsilon, "epsilon", cfg.Epsilon, "Exploration rate")
	rootCommand.PersistentFlags().Int64Var(&seed, "seed", cfg.Seed, "Random seed, 0 uses the current time")
	rootCommand.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(PlayCommand())
	rootCommand.AddCommand(ExploreCommand())
	rootCommand.AddCommand(ServeCommand())
	return rootCommand
}

// signalContext returns a context cancelled by the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		cancel()
	}()
	return ctx, cancel
}
