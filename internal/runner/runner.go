package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/danielholmes839/loginpage/internal/browser"
	"github.com/danielholmes839/loginpage/internal/config"
	"github.com/danielholmes839/loginpage/internal/pages"
)

type Pages interface {
	NewLoginPage() (*pages.LoginPage, error)
}

type Runner struct {
	Pages         Pages
	LoginPath     string
	ScreenshotDir string
	Logger        *slog.Logger
}

type Result struct {
	Scenario  config.Scenario
	Passed    bool
	ErrorText string
	Duration  time.Duration
	Err       error
}

// Run executes scenarios one at a time, each in a fresh page. Scenarios not
// started before ctx is done are reported as failed with ctx.Err(), and the
// page of a running scenario is closed as soon as ctx is done.
func (r *Runner) Run(ctx context.Context, scenarios []config.Scenario) Report {
	results := make([]Result, 0, len(scenarios))

	for i, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Scenario: scenario, Err: err})
			continue
		}

		result := r.runOne(ctx, i, scenario)
		results = append(results, result)

		logger := r.logger().With("scenario", scenario.Name, "dur", result.Duration.String())
		switch {
		case result.Err != nil:
			logger.Error("scenario errored", "err", result.Err)
		case !result.Passed:
			logger.Warn("scenario failed", "expect", string(scenario.Expect), "toaster", result.ErrorText)
		default:
			logger.Info("scenario passed")
		}
	}

	return NewReport(results)
}

func (r *Runner) RunOne(ctx context.Context, scenario config.Scenario) Result {
	return r.runOne(ctx, 0, scenario)
}

func (r *Runner) runOne(ctx context.Context, index int, scenario config.Scenario) Result {
	start := time.Now()
	result := Result{Scenario: scenario}

	lp, err := r.Pages.NewLoginPage()
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	closePage := func() {
		if err := lp.Close(); err != nil {
			r.logger().Error("failed to close page", "err", err)
		}
	}

	// closing the page fails any in-flight playwright call immediately
	stop := context.AfterFunc(ctx, closePage)
	defer func() {
		if stop() {
			closePage()
		}
	}()

	lp.Open(r.loginPath()).Login(scenario.Username, scenario.Password)
	displayed := lp.CheckIfErrorToasterDisplayed()

	if err := ctx.Err(); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := lp.Err(); err != nil {
		result.Err = err
	} else {
		result.Passed = displayed == (scenario.Expect == config.ExpectError)

		state, err := lp.State()
		if err != nil {
			result.Err = err
			result.Passed = false
		}
		result.ErrorText = state.ErrorText
	}

	if !result.Passed && r.ScreenshotDir != "" {
		path := browser.ScreenshotPath(r.ScreenshotDir, fmt.Sprintf("%02d %s", index+1, scenario.Name))
		if err := lp.Screenshot(path); err != nil {
			r.logger().Error("failed to save screenshot", "err", err, "path", path)
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) loginPath() string {
	if r.LoginPath == "" {
		return "/login"
	}
	return r.LoginPath
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Report summarises a run.
type Report struct {
	Results []Result
	Passed  []Result
	Failed  []Result
}

func NewReport(results []Result) Report {
	passed := []Result{}
	failed := []Result{}

	for _, result := range results {
		if result.Passed {
			passed = append(passed, result)
		} else {
			failed = append(failed, result)
		}
	}

	return Report{
		Results: results,
		Passed:  passed,
		Failed:  failed,
	}
}

func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Err joins the errors of failed scenarios.
func (r Report) Err() error {
	var err error
	for _, result := range r.Failed {
		if result.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", result.Scenario.Name, result.Err))
		}
	}
	return err
}
