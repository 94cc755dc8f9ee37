package pages

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultToasterTimeout = 5 * time.Second

var ErrToasterMissing = errors.New("error toaster not displayed")

// Driver is the subset of playwright.Page used by the page objects.
type Driver interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator
	Content() (string, error)
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Close(options ...playwright.PageCloseOptions) error
}

// LoginPage drives the login form. Actions chain; the first driver error is
// kept and every later action becomes a no-op. Check it with Err.
type LoginPage struct {
	driver         Driver
	toasterTimeout time.Duration
	err            error
}

func NewLoginPage(driver Driver) *LoginPage {
	return &LoginPage{
		driver:         driver,
		toasterTimeout: defaultToasterTimeout,
	}
}

// WithToasterTimeout bounds how long the toaster check waits for the
// element to become visible.
func (lp *LoginPage) WithToasterTimeout(d time.Duration) *LoginPage {
	lp.toasterTimeout = d
	return lp
}

func (lp *LoginPage) Err() error {
	return lp.err
}

func (lp *LoginPage) fail(action string, err error) {
	if err != nil && lp.err == nil {
		lp.err = fmt.Errorf("%s: %w", action, err)
	}
}

func (lp *LoginPage) Open(path string) *LoginPage {
	if lp.err != nil {
		return lp
	}
	_, err := lp.driver.Goto(path)
	lp.fail("open "+path, err)
	return lp
}

func (lp *LoginPage) EnterUserName(name string) *LoginPage {
	if lp.err != nil {
		return lp
	}
	lp.fail("enter username", lp.driver.Locator(SelectorUserName).First().Fill(name))
	return lp
}

func (lp *LoginPage) EnterUserPassword(password string) *LoginPage {
	if lp.err != nil {
		return lp
	}
	lp.fail("enter password", lp.driver.Locator(SelectorUserPassword).First().Fill(password))
	return lp
}

func (lp *LoginPage) ClickSubmitButton() *LoginPage {
	if lp.err != nil {
		return lp
	}
	lp.fail("click submit", lp.driver.Locator(SelectorSubmit).First().Click())
	return lp
}

// Login fills both fields and submits the form.
func (lp *LoginPage) Login(name, password string) *LoginPage {
	return lp.EnterUserName(name).EnterUserPassword(password).ClickSubmitButton()
}

// ErrorText waits for the error toaster and returns its visible text.
func (lp *LoginPage) ErrorText() (string, error) {
	if lp.err != nil {
		return "", lp.err
	}

	toaster := lp.driver.Locator(SelectorErrorToaster).First()

	timeout := float64(lp.toasterTimeout.Milliseconds())
	err := toaster.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: &timeout,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToasterMissing, err)
	}

	text, err := toaster.InnerText()
	if err != nil {
		return "", fmt.Errorf("read error toaster: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// CheckIfErrorToasterDisplayed reports whether the toaster shows the
// invalid username message.
func (lp *LoginPage) CheckIfErrorToasterDisplayed() bool {
	text, err := lp.ErrorText()
	if err != nil {
		return false
	}
	return text == InvalidUserNameMessage
}

// State snapshots the current DOM and parses it.
func (lp *LoginPage) State() (LoginPageState, error) {
	content, err := lp.driver.Content()
	if err != nil {
		return LoginPageState{}, fmt.Errorf("read page content: %w", err)
	}
	return ParseLoginPage(bytes.NewBufferString(content))
}

func (lp *LoginPage) Screenshot(path string) error {
	_, err := lp.driver.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (lp *LoginPage) Close() error {
	return lp.driver.Close()
}
