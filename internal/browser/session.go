package browser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/multierr"

	"github.com/danielholmes839/loginpage/internal/pages"
)

var _ pages.Driver = (playwright.Page)(nil)

type Options struct {
	BaseURL  string
	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration

	// Install downloads the driver and chromium before starting.
	Install bool

	Logger *slog.Logger
}

// Session owns one playwright process, one chromium instance and one
// browser context. Pages opened from it share cookies.
type Session struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext

	logger *slog.Logger
}

func Launch(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	startup := time.Now()

	if opts.Install {
		err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
		if err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("launch browser: %w", err), pw.Stop())
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.BaseURL != "" {
		contextOpts.BaseURL = playwright.String(opts.BaseURL)
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, multierr.Combine(fmt.Errorf("create context: %w", err), browser.Close(), pw.Stop())
	}

	if opts.Timeout > 0 {
		context.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}

	logger.Info("launched playwright browser", "dur", time.Since(startup).String(), "headless", opts.Headless)

	return &Session{
		Playwright: pw,
		Browser:    browser,
		Context:    context,
		logger:     logger,
	}, nil
}

// NewLoginPage opens a new tab wrapped in a login page object. Closing the
// page object closes the tab.
func (s *Session) NewLoginPage() (*pages.LoginPage, error) {
	page, err := s.Context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	return pages.NewLoginPage(page), nil
}

func (s *Session) Close() error {
	err := multierr.Combine(
		s.Context.Close(),
		s.Browser.Close(),
		s.Playwright.Stop(),
	)
	if err != nil {
		s.logger.Error("failed to close browser session", "err", err)
	}
	return err
}

// ScreenshotPath is where a screenshot named name is written under dir.
func ScreenshotPath(dir, name string) string {
	return filepath.Join(dir, Slug(name)+".png")
}
