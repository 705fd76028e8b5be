// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/replaydqn/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/replaydqn/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/replaydqn/environment/gridworld"
	"github.com/samuelfneumann/replaydqn/environment/maze"
	"github.com/samuelfneumann/replaydqn/environment/wrappers"
	"github.com/samuelfneumann/gomaze"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCar EnvName = "MountainCar"
	Cartpole    EnvName = "Cartpole"
	Acrobot     EnvName = "Acrobot"
	Maze        EnvName = "Maze"
	GridWorld   EnvName = "GridWorld"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	MountainCar			Goal
//	Cartpole			Balance
//	Acrobot				SwingUp
//	Maze				Solve
//	GridWorld			Goal
type TaskName string

// Tasks available for configuration
const (
	Goal    TaskName = "Goal"
	Balance TaskName = "Balance"
	SwingUp TaskName = "SwingUp"
	Solve   TaskName = "Solve"
)

// GridWorldSize is the number of rows and columns of configured
// gridworlds
const GridWorldSize int = 5

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
//
// If Scales is non-empty, each observation feature i is divided by
// Scales[i]. If Difference is true, agents observe the difference
// between consecutive (scaled) observations.
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff int // <= 0 for no cutoff
	Scales        []float64
	Difference    bool
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff int,
	difference bool) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Difference:    difference,
	}
}

// Validate returns an error if the Config does not describe a
// valid environment and task
func (c Config) Validate() error {
	switch c.Environment {
	case Cartpole:
		if c.Task != Balance {
			return fmt.Errorf("validate: Cartpole environment has no task %v",
				c.Task)
		}
		if len(c.Scales) != 0 && len(c.Scales) != cartpole.Features {
			return fmt.Errorf("validate: Cartpole needs %v scales \n\t"+
				"have(%v)", cartpole.Features, len(c.Scales))
		}

	case MountainCar:
		if c.Task != Goal {
			return fmt.Errorf("validate: MountainCar environment has no "+
				"task %v", c.Task)
		}
		if len(c.Scales) != 0 && len(c.Scales) != mountaincar.Features {
			return fmt.Errorf("validate: MountainCar needs %v scales \n\t"+
				"have(%v)", mountaincar.Features, len(c.Scales))
		}

	case Acrobot:
		if c.Task != SwingUp {
			return fmt.Errorf("validate: Acrobot environment has no task %v",
				c.Task)
		}
		if len(c.Scales) != 0 && len(c.Scales) != acrobot.Features {
			return fmt.Errorf("validate: Acrobot needs %v scales \n\t"+
				"have(%v)", acrobot.Features, len(c.Scales))
		}

	case Maze:
		if c.Task != Solve {
			return fmt.Errorf("validate: Maze environment has no task %v",
				c.Task)
		}
		if len(c.Scales) != 0 && len(c.Scales) != maze.Features {
			return fmt.Errorf("validate: Maze needs %v scales \n\t"+
				"have(%v)", maze.Features, len(c.Scales))
		}

	case GridWorld:
		if c.Task != Goal {
			return fmt.Errorf("validate: GridWorld environment has no "+
				"task %v", c.Task)
		}
		features := GridWorldSize * GridWorldSize
		if len(c.Scales) != 0 && len(c.Scales) != features {
			return fmt.Errorf("validate: GridWorld needs %v scales \n\t"+
				"have(%v)", features, len(c.Scales))
		}

	default:
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	return nil
}

// Create returns the environment described by the Config. The seed
// determines the starting state distribution.
func (c Config) Create(seed uint64) (env.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	var e env.Environment
	var err error
	switch c.Environment {
	case Cartpole:
		e, err = CreateCartpole(c.EpisodeCutoff, seed)
	case MountainCar:
		e, err = CreateMountainCar(c.EpisodeCutoff, seed)
	case Acrobot:
		e, err = CreateAcrobot(c.EpisodeCutoff, seed)
	case Maze:
		e, err = CreateMaze(c.EpisodeCutoff, seed)
	case GridWorld:
		e, err = CreateGridWorld(c.EpisodeCutoff)
	}
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	if len(c.Scales) > 0 {
		repr, err := wrappers.Scaled(c.Scales)
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		e, err = wrappers.NewDerived(e, repr, len(c.Scales))
		if err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
	}

	if c.Difference {
		e = wrappers.NewDifference(e)
	}
	return e, nil
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and the Balance task.
func CreateCartpole(cutoff int, seed uint64) (*cartpole.Cartpole, error) {
	s, err := env.NewUniformStarter(cartpole.StartBounds(), seed)
	if err != nil {
		return nil, fmt.Errorf("createCartpole: %w", err)
	}

	task, err := cartpole.NewBalance(s, cutoff, cartpole.FailAngle,
		cartpole.FailPosition)
	if err != nil {
		return nil, fmt.Errorf("createCartpole: %w", err)
	}
	return cartpole.New(task), nil
}

// CreateMountainCar is a factory for creating the MountainCar
// environment with default physical parameters and the Goal task.
func CreateMountainCar(cutoff int, seed uint64) (*mountaincar.MountainCar,
	error) {
	s, err := env.NewUniformStarter(mountaincar.StartBounds(), seed)
	if err != nil {
		return nil, fmt.Errorf("createMountainCar: %w", err)
	}

	task, err := mountaincar.NewGoal(s, cutoff, mountaincar.GoalPosition)
	if err != nil {
		return nil, fmt.Errorf("createMountainCar: %w", err)
	}
	return mountaincar.New(task), nil
}

// CreateAcrobot is a factory for creating the Acrobot environment with
// default physical parameters and the SwingUp task.
func CreateAcrobot(cutoff int, seed uint64) (*acrobot.Acrobot, error) {
	s, err := env.NewUniformStarter(acrobot.StartBounds(), seed)
	if err != nil {
		return nil, fmt.Errorf("createAcrobot: %w", err)
	}

	task, err := acrobot.NewSwingUp(s, cutoff, acrobot.GoalHeight)
	if err != nil {
		return nil, fmt.Errorf("createAcrobot: %w", err)
	}
	return acrobot.New(task), nil
}

// CreateMaze is a factory for creating a maze of default dimensions
// with the Solve task. The seed determines the maze layout.
func CreateMaze(cutoff int, seed uint64) (*maze.Maze, error) {
	m, err := maze.New(maze.NewSolve(cutoff), maze.DefaultRows,
		maze.DefaultCols, gomaze.NewBacktracking(int64(seed)))
	if err != nil {
		return nil, fmt.Errorf("createMaze: %w", err)
	}
	return m, nil
}

// CreateGridWorld is a factory for creating a GridWorldSize ⨉
// GridWorldSize gridworld with the Goal task. The agent starts in the
// bottom left corner and must reach the top right corner, receiving a
// reward of -1 per step and 0 on entering the goal.
func CreateGridWorld(cutoff int) (*gridworld.GridWorld, error) {
	size := GridWorldSize
	s, err := gridworld.NewSingleStart(0, 0, size, size)
	if err != nil {
		return nil, fmt.Errorf("createGridWorld: %w", err)
	}

	task, err := gridworld.NewGoal(s, []int{size - 1}, []int{size - 1}, size,
		size, -1, 0, cutoff)
	if err != nil {
		return nil, fmt.Errorf("createGridWorld: %w", err)
	}
	return gridworld.New(size, size, task)
}
