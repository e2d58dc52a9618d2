package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/smalltown/internal/platform/timeouts"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/rs/zerolog"
)

// Config controls scenario execution.
type Config struct {
	DBPath     string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua scenarios against an in-process game service.
type Runner struct {
	svc        *app.Service
	closeStore func() error
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner opens the game store and prepares a scenario runner.
func NewRunner(cfg Config) (*Runner, error) {
	svc, closeStore, err := app.Open(cfg.DBPath, zerolog.Nop())
	if err != nil {
		return nil, fmt.Errorf("open game service: %w", err)
	}
	r := newRunnerWithService(cfg, svc)
	r.closeStore = closeStore
	return r, nil
}

// newRunnerWithService builds a Runner around an assembled service.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithService(cfg Config, svc *app.Service) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}

	return &Runner{
		svc:        svc,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.closeStore != nil {
		return r.closeStore()
	}
	return nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order. Each step gets its
// own timeout; the scenario as a whole has none.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	total := len(scenario.Steps)
	r.logf("scenario %q: %d steps", scenario.Name, total)
	state := &scenarioState{}

	for index, step := range scenario.Steps {
		began := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", index+1, step.Kind, err)
		}
		r.logf("  %d/%d %s ok (%s)", index+1, total, step.Kind, time.Since(began))
	}
	r.logf("scenario %q: done", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
