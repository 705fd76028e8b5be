package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	env "github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/experiment/tracker"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fixedEnv is an environment whose episodes always last length steps
// and give a reward of 1 on each step
type fixedEnv struct {
	length int
	n      int
}

func (f *fixedEnv) Reset() (ts.TimeStep, error) {
	f.n = 0
	return ts.New(ts.First, 0, mat.NewVecDense(1, []float64{0}), 0), nil
}

func (f *fixedEnv) Step(action int) (ts.TimeStep, bool, error) {
	f.n++
	obs := mat.NewVecDense(1, []float64{float64(f.n)})
	if f.n >= f.length {
		step := ts.New(ts.Last, 1, obs, f.n)
		step.SetEnd(ts.TerminalStateReached)
		return step, true, nil
	}
	return ts.New(ts.Mid, 1, obs, f.n), false, nil
}

func (f *fixedEnv) ObservationSpec() env.Spec {
	bound := mat.NewVecDense(1, nil)
	return env.NewSpec(bound, env.Observation, bound, bound, env.Continuous)
}

func (f *fixedEnv) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(2)
}

// recordingAgent records every call made to it
type recordingAgent struct {
	transitions []ts.Transition
	steps       int
	selections  int
	syncs       []int // Number of observed transitions at each sync
	eval        bool

	stepErr error
}

func (r *recordingAgent) SelectAction(*mat.VecDense) (int, error) {
	r.selections++
	return r.selections % 2, nil
}

func (r *recordingAgent) Observe(t ts.Transition) error {
	r.transitions = append(r.transitions, t)
	return nil
}

func (r *recordingAgent) Step() error {
	r.steps++
	return r.stepErr
}

func (r *recordingAgent) SyncTarget() error {
	r.syncs = append(r.syncs, len(r.transitions))
	return nil
}

func (r *recordingAgent) Eval()        { r.eval = true }
func (r *recordingAgent) Train()       { r.eval = false }
func (r *recordingAgent) IsEval() bool { return r.eval }

func TestSchedulerRun(t *testing.T) {
	const length, episodes, interval = 3, 7, 3

	a := &recordingAgent{}
	s, err := NewScheduler(&fixedEnv{length: length}, a, episodes, interval,
		2, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, Idle, s.State())

	var summaries []Summary
	s.OnEpisode(func(sum Summary) { summaries = append(summaries, sum) })

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, TrainingComplete, s.State())
	require.Equal(t, episodes, s.Episode())
	require.Equal(t, episodes*length, s.TotalSteps())

	// One selection, observation, and update per environment step
	require.Equal(t, episodes*length, a.selections)
	require.Equal(t, episodes*length, a.steps)
	require.Len(t, a.transitions, episodes*length)

	// Synchronized after episodes 0, 3, and 6
	require.Equal(t, []int{1 * length, 4 * length, 7 * length}, a.syncs)

	require.Len(t, summaries, episodes)
	for i, sum := range summaries {
		assert.Equal(t, i, sum.Episode)
		assert.Equal(t, length, sum.Length)
		assert.Equal(t, float64(length), sum.Return)
		assert.Equal(t, i%interval == 0, sum.Synced)
	}

	_, err = s.RunEpisode()
	require.True(t, errors.Is(err, ErrTrainingComplete))
}

func TestSchedulerTransitions(t *testing.T) {
	a := &recordingAgent{}
	s, err := NewScheduler(&fixedEnv{length: 3}, a, 1, 1, 1, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.RunEpisode()
	require.NoError(t, err)
	require.Len(t, a.transitions, 3)

	for i, tr := range a.transitions {
		assert.Equal(t, float64(i), tr.State.AtVec(0))
		assert.Equal(t, 1.0, tr.Reward)
		next, ok := tr.NextState()
		if i < 2 {
			require.True(t, ok)
			assert.Equal(t, float64(i+1), next.AtVec(0))
		} else {
			require.False(t, ok)
			require.True(t, tr.Final())
		}
	}
}

func TestSchedulerTrackers(t *testing.T) {
	lengths := tracker.NewEpisodeLength("unused")
	returns := tracker.NewReturn("unused")

	s, err := NewScheduler(&fixedEnv{length: 4}, &recordingAgent{}, 2, 1, 1,
		zerolog.Nop())
	require.NoError(t, err)
	s.Register(lengths)
	s.Register(returns)

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, []float64{4, 4}, lengths.Data())
	require.Equal(t, []float64{4, 4}, returns.Data())
}

type countingCheckpointer struct {
	calls []int
}

func (c *countingCheckpointer) Checkpoint(episodes int) error {
	c.calls = append(c.calls, episodes)
	return nil
}

func TestSchedulerCheckpointer(t *testing.T) {
	c := &countingCheckpointer{}
	s, err := NewScheduler(&fixedEnv{length: 1}, &recordingAgent{}, 3, 1, 1,
		zerolog.Nop())
	require.NoError(t, err)
	s.AddCheckpointer(c)

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, []int{1, 2, 3}, c.calls)
}

func TestSchedulerCancelled(t *testing.T) {
	a := &recordingAgent{}
	s, err := NewScheduler(&fixedEnv{length: 2}, a, 5, 1, 1, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Run(ctx), context.Canceled)
	require.Zero(t, a.selections)
	require.Equal(t, Idle, s.State())
}

func TestSchedulerStepError(t *testing.T) {
	a := &recordingAgent{stepErr: errors.New("boom")}
	s, err := NewScheduler(&fixedEnv{length: 2}, a, 5, 1, 1, zerolog.Nop())
	require.NoError(t, err)

	require.Error(t, s.Run(context.Background()))
	require.Equal(t, 0, s.Episode())
}

func TestNewSchedulerValidation(t *testing.T) {
	e := &fixedEnv{length: 1}
	_, err := NewScheduler(e, &recordingAgent{}, 0, 1, 1, zerolog.Nop())
	require.Error(t, err)
	_, err = NewScheduler(e, &recordingAgent{}, 1, 0, 1, zerolog.Nop())
	require.Error(t, err)
	_, err = NewScheduler(e, &recordingAgent{}, 1, 1, 0, zerolog.Nop())
	require.Error(t, err)
	_, err = NewScheduler(nil, &recordingAgent{}, 1, 1, 1, zerolog.Nop())
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "EpisodeRunning", EpisodeRunning.String())
	require.Equal(t, "State(42)", State(42).String())
}
