package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/samuelfneumann/replaydqn/experiment"
	"github.com/samuelfneumann/replaydqn/experiment/checkpointer"
	"github.com/samuelfneumann/replaydqn/experiment/tracker"
	"github.com/samuelfneumann/replaydqn/utils/progressbar"
	"github.com/spf13/cobra"
)

type trainFlags struct {
	episodes        int
	targetInterval  int
	seed            uint64
	save            string
	load            string
	checkpointEvery int
	checkpointNames string
	returns         string
	lengths         string
	progress        bool
	difference      bool
}

func trainCommand() *cobra.Command {
	var f trainFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a DeepQ agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("episodes") {
				c.Episodes = f.episodes
			}
			if cmd.Flags().Changed("target-interval") {
				c.TargetUpdateInterval = f.targetInterval
			}
			if cmd.Flags().Changed("difference") {
				c.EnvConf.Difference = f.difference
			}
			return train(cmd.Context(), c, f)
		},
	}

	cmd.Flags().IntVar(&f.episodes, "episodes", 50, "Number of episodes")
	cmd.Flags().IntVar(&f.targetInterval, "target-interval", 10,
		"Episodes between target network synchronizations")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&f.save, "save", "",
		"File to save the final policy weights to")
	cmd.Flags().StringVar(&f.load, "load", "",
		"File of policy weights to start training from")
	cmd.Flags().IntVar(&f.checkpointEvery, "checkpoint-every", 0,
		"Save policy weights every N episodes (requires --save)")
	cmd.Flags().StringVar(&f.checkpointNames, "checkpoint-naming", enumerate,
		"Checkpoint file suffixes, one of enumerate or timestamp")
	cmd.Flags().StringVar(&f.returns, "returns", "",
		"File to save episodic returns to")
	cmd.Flags().StringVar(&f.lengths, "lengths", "",
		"File to save episode lengths to")
	cmd.Flags().BoolVar(&f.progress, "progress", false,
		"Display a progress bar")
	cmd.Flags().BoolVar(&f.difference, "difference", false,
		"Train on the difference of consecutive observations")
	return cmd
}

// Checkpoint naming schemes
const (
	enumerate = "enumerate"
	timestamp = "timestamp"
)

// checkpointNamer returns the checkpoint filename generator for scheme
// given the final weights file
func checkpointNamer(scheme, save string) (func() string, error) {
	switch scheme {
	case enumerate:
		return checkpointer.FilenameEnumerator(0, save+".", ".ckpt"), nil
	case timestamp:
		return checkpointer.FileTimer(save+".", ".ckpt"), nil
	default:
		return nil, fmt.Errorf("--checkpoint-naming must be %v or %v "+
			"\n\thave(%v)", enumerate, timestamp, scheme)
	}
}

func train(ctx context.Context, c experiment.Config, f trainFlags) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	s, a, err := c.Create(f.seed, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if f.load != "" {
		if err := a.Load(f.load); err != nil {
			return err
		}
		logger.Info().Str("file", f.load).Msg("loaded policy weights")
	}

	if f.checkpointEvery > 0 {
		if f.save == "" {
			return fmt.Errorf("--checkpoint-every requires --save")
		}
		namer, err := checkpointNamer(f.checkpointNames, f.save)
		if err != nil {
			return err
		}
		check, err := checkpointer.NewNEpisode(f.checkpointEvery, a, namer)
		if err != nil {
			return err
		}
		s.AddCheckpointer(check)
	}
	if f.returns != "" {
		s.Register(tracker.NewReturn(f.returns))
	}
	if f.lengths != "" {
		s.Register(tracker.NewEpisodeLength(f.lengths))
	}

	if f.progress {
		bar, err := progressbar.New(os.Stdout, 50, c.Episodes, time.Second)
		if err != nil {
			return err
		}
		s.OnEpisode(func(experiment.Summary) { bar.Increment() })
		bar.Display()
		defer bar.Close()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info().
		Int("episodes", c.Episodes).
		Int("target_interval", c.TargetUpdateInterval).
		Int("batch", c.AgentConf.BatchSize()).
		Uint64("seed", f.seed).
		Msg("training")

	runErr := s.Run(ctx)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("training stopped")
	}

	if err := s.Save(); err != nil {
		return err
	}
	if f.save != "" {
		if err := a.Save(f.save); err != nil {
			return err
		}
		logger.Info().Str("file", f.save).Msg("saved policy weights")
	}

	logger.Info().
		Int("episodes", s.Episode()).
		Int("total_steps", s.TotalSteps()).
		Int("gradient_steps", a.GradientSteps()).
		Msg("done")
	return runErr
}
