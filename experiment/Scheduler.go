package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/replaydqn/agent"
	env "github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/experiment/checkpointer"
	"github.com/samuelfneumann/replaydqn/experiment/tracker"
	ts "github.com/samuelfneumann/replaydqn/timestep"
)

// ErrTrainingComplete is returned when an episode is requested after
// all episodes of a Scheduler have been run
var ErrTrainingComplete = errors.New("training complete")

// State is the state of a Scheduler
type State int

const (
	Idle State = iota
	EpisodeRunning
	StepRunning
	EpisodeComplete
	TrainingComplete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case EpisodeRunning:
		return "EpisodeRunning"
	case StepRunning:
		return "StepRunning"
	case EpisodeComplete:
		return "EpisodeComplete"
	case TrainingComplete:
		return "TrainingComplete"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Summary describes a completed episode
type Summary struct {
	Episode    int     // Index of the episode, starting at 0
	Length     int     // Number of environment steps taken
	Return     float64 // Sum of rewards
	MeanLength float64 // Mean length over the recent episode window
	Synced     bool    // Whether the target was synchronized afterwards
}

// Scheduler runs an agent online in an environment for a fixed number
// of episodes.
//
// On each step, the agent selects an action in the current state, the
// environment is stepped, the resulting transition is observed by the
// agent, and the agent performs one update. When an episode ends, the
// agent's target is synchronized if the episode index is a multiple of
// the target update interval, so the first synchronization happens
// after episode 0.
//
// The Scheduler, its environment, and its agent are used from a single
// goroutine.
type Scheduler struct {
	env   env.Environment
	agent agent.Agent

	episodes       int
	targetInterval int

	state      State
	episode    int
	totalSteps int

	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	hooks         []func(Summary)

	window *tracker.Window
	logger zerolog.Logger
}

// NewScheduler returns a new Scheduler which runs a for episodes
// episodes in e, synchronizing the agent's target every targetInterval
// episodes. The mean episode length logged after each episode is taken
// over the last window episodes.
func NewScheduler(e env.Environment, a agent.Agent, episodes,
	targetInterval, window int, logger zerolog.Logger) (*Scheduler, error) {
	if e == nil || a == nil {
		return nil, fmt.Errorf("newscheduler: environment and agent are " +
			"required")
	}
	if episodes < 1 {
		return nil, fmt.Errorf("newscheduler: episodes must be positive "+
			"\n\thave(%v)", episodes)
	}
	if targetInterval < 1 {
		return nil, fmt.Errorf("newscheduler: target update interval must "+
			"be positive \n\thave(%v)", targetInterval)
	}
	w, err := tracker.NewWindow(window)
	if err != nil {
		return nil, fmt.Errorf("newscheduler: %w", err)
	}

	return &Scheduler{
		env:            e,
		agent:          a,
		episodes:       episodes,
		targetInterval: targetInterval,
		state:          Idle,
		window:         w,
		logger:         logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Register registers a Tracker with the Scheduler so that data
// generated during the experiment can be tracked and saved
func (s *Scheduler) Register(t tracker.Tracker) {
	s.trackers = append(s.trackers, t)
}

// AddCheckpointer adds a Checkpointer which is called with the number
// of completed episodes after each episode
func (s *Scheduler) AddCheckpointer(c checkpointer.Checkpointer) {
	s.checkpointers = append(s.checkpointers, c)
}

// OnEpisode adds a function which is called with the Summary of each
// completed episode
func (s *Scheduler) OnEpisode(f func(Summary)) {
	s.hooks = append(s.hooks, f)
}

// State returns the current state of the Scheduler
func (s *Scheduler) State() State {
	return s.state
}

// Episode returns the number of completed episodes
func (s *Scheduler) Episode() int {
	return s.episode
}

// TotalSteps returns the number of environment steps taken over all
// episodes
func (s *Scheduler) TotalSteps() int {
	return s.totalSteps
}

// Run runs all remaining episodes. The context is checked between
// episodes; an episode which has started always runs to completion.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.state != TrainingComplete {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Int("episode", s.episode).Msg("run cancelled")
			return err
		}
		if _, err := s.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// RunEpisode runs a single episode and returns its Summary
func (s *Scheduler) RunEpisode() (Summary, error) {
	if s.state == TrainingComplete {
		return Summary{}, ErrTrainingComplete
	}

	s.state = EpisodeRunning
	step, err := s.env.Reset()
	if err != nil {
		return Summary{}, fmt.Errorf("runepisode: could not reset "+
			"environment: %w", err)
	}
	s.track(step)

	summary := Summary{Episode: s.episode}
	for done := false; !done; {
		s.state = StepRunning
		if step, done, err = s.step(step); err != nil {
			return Summary{}, fmt.Errorf("runepisode: episode %v step %v: %w",
				s.episode, summary.Length, err)
		}
		summary.Length++
		summary.Return += step.Reward
		s.totalSteps++
	}

	s.state = EpisodeComplete
	s.window.Add(float64(summary.Length))
	summary.MeanLength = s.window.Mean()

	if s.episode%s.targetInterval == 0 {
		if err := s.agent.SyncTarget(); err != nil {
			return Summary{}, fmt.Errorf("runepisode: could not synchronize "+
				"target: %w", err)
		}
		summary.Synced = true
		s.logger.Debug().Int("episode", s.episode).Msg("target synchronized")
	}
	s.episode++

	for _, c := range s.checkpointers {
		if err := c.Checkpoint(s.episode); err != nil {
			return Summary{}, fmt.Errorf("runepisode: %w", err)
		}
	}

	event := s.logger.Info().
		Int("episode", summary.Episode).
		Int("length", summary.Length).
		Float64("return", summary.Return).
		Float64("mean_length", summary.MeanLength).
		Int("total_steps", s.totalSteps)
	if e, ok := s.agent.(interface{ Epsilon() float64 }); ok {
		event = event.Float64("epsilon", e.Epsilon())
	}
	event.Msg("episode complete")

	for _, f := range s.hooks {
		f(summary)
	}

	if s.episode >= s.episodes {
		s.state = TrainingComplete
	} else {
		s.state = Idle
	}
	return summary, nil
}

// step takes a single step in the environment from the TimeStep prev,
// passes the transition to the agent, and updates the agent
func (s *Scheduler) step(prev ts.TimeStep) (ts.TimeStep, bool, error) {
	state := prev.Observation
	action, err := s.agent.SelectAction(state)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("could not select "+
			"action: %w", err)
	}

	next, done, err := s.env.Step(action)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("could not step "+
			"environment: %w", err)
	}
	s.track(next)

	var t ts.Transition
	if done {
		t = ts.NewFinalTransition(state, action, next.Reward)
	} else {
		t = ts.NewTransition(state, action, next.Reward, next.Observation)
	}
	if err := s.agent.Observe(t); err != nil {
		return ts.TimeStep{}, false, err
	}
	if err := s.agent.Step(); err != nil {
		return ts.TimeStep{}, false, err
	}

	return next, done, nil
}

// track sends a TimeStep to each registered Tracker
func (s *Scheduler) track(t ts.TimeStep) {
	for _, tr := range s.trackers {
		tr.Track(t)
	}
}

// Save saves the data of all registered Trackers
func (s *Scheduler) Save() error {
	for _, tr := range s.trackers {
		if err := tr.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}
