package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/danielholmes839/loginpage/internal/browser"
	"github.com/danielholmes839/loginpage/internal/config"
	"github.com/danielholmes839/loginpage/internal/notify"
	"github.com/danielholmes839/loginpage/internal/runner"
)

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var install bool

	root := &cobra.Command{
		Use:           "loginpage",
		Short:         "Drive a login form through a headless browser",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&install, "install", false, "install the playwright driver and chromium first")

	root.AddCommand(newCheckCmd(&install), newRunCmd(&install))
	return root
}

func newCheckCmd(install *bool) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Log in once and report whether the invalid username toaster is shown",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv(".env")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("username") {
				cfg.Username = username
			}
			if cmd.Flags().Changed("password") {
				cfg.Password = password
			}

			session, err := launch(cfg, *install)
			if err != nil {
				return err
			}
			defer session.Close()

			lp, err := session.NewLoginPage()
			if err != nil {
				return err
			}
			defer lp.Close()

			lp.Open(cfg.LoginPath).Login(cfg.Username, cfg.Password)
			displayed := lp.CheckIfErrorToasterDisplayed()
			if err := lp.Err(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "error toaster displayed: %t\n", displayed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username to enter (default $LOGIN_USERNAME)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password to enter (default $LOGIN_PASSWORD)")
	return cmd
}

func newRunCmd(install *bool) *cobra.Command {
	var scenariosPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a file of login scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv(".env")
			if err != nil {
				return err
			}

			scenarios, err := config.LoadScenarios(afero.NewOsFs(), scenariosPath)
			if err != nil {
				return err
			}

			session, err := launch(cfg, *install)
			if err != nil {
				return err
			}
			defer session.Close()

			r := &runner.Runner{
				Pages:         session,
				LoginPath:     cfg.LoginPath,
				ScreenshotDir: cfg.ScreenshotDir,
				Logger:        slog.Default(),
			}

			report := r.Run(cmd.Context(), scenarios)
			printReport(cmd.OutOrStdout(), report)

			if cfg.DiscordWebhookURL != "" {
				discord, err := notify.NewDiscord(cfg.DiscordWebhookURL)
				if err != nil {
					return err
				}
				if err := discord.Notify(report); err != nil {
					slog.Error("failed to notify discord", "err", err)
				}
			}

			if !report.OK() {
				return exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenariosPath, "scenarios", "f", "scenarios.yaml", "scenario file")
	return cmd
}

func launch(cfg config.Config, install bool) (*browser.Session, error) {
	return browser.Launch(browser.Options{
		BaseURL:  cfg.BaseURL,
		Headless: cfg.Headless,
		SlowMo:   cfg.SlowMo,
		Timeout:  cfg.Timeout,
		Install:  install,
		Logger:   slog.Default(),
	})
}

func printReport(w io.Writer, report runner.Report) {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, result := range report.Results {
		status := pass("PASS")
		if !result.Passed {
			status = fail("FAIL")
		}
		fmt.Fprintf(w, "%s %s (%s)\n", status, result.Scenario.Name, result.Duration.Round(time.Millisecond))
		if result.Err != nil {
			fmt.Fprintf(w, "     %v\n", result.Err)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d failed\n", len(report.Passed), len(report.Failed))
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exit exitError
	if !errors.As(err, &exit) {
		logger.Error("command failed", "err", err)
	}
	stop()
	os.Exit(exitCode(err))
}
