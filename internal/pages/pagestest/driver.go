// Package pagestest provides an in-memory stand-in for a playwright page so
// page objects can be exercised without a browser.
package pagestest

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/danielholmes839/loginpage/internal/pages"
)

var ErrTimeout = errors.New("timeout: element not visible")

var _ pages.Driver = (*Driver)(nil)

// Driver records interactions by selector. Texts holds the visible text of
// elements; a selector absent from Texts is treated as not displayed.
type Driver struct {
	sync.Mutex

	Values  map[string]string
	Texts   map[string]string
	Clicks  map[string]int
	Errors  map[string]error
	OnClick map[string]func(d *Driver)

	GotoErr     error
	Visited     []string
	Screenshots []string
	Closed      bool
}

func NewDriver() *Driver {
	return &Driver{
		Values:  map[string]string{},
		Texts:   map[string]string{},
		Clicks:  map[string]int{},
		Errors:  map[string]error{},
		OnClick: map[string]func(d *Driver){},
	}
}

// NewLoginForm returns a driver whose submit button shows the invalid
// username toaster unless the entered username is in valid.
func NewLoginForm(valid ...string) *Driver {
	d := NewDriver()
	d.OnClick[pages.SelectorSubmit] = func(d *Driver) {
		username := d.Values[pages.SelectorUserName]
		for _, v := range valid {
			if v == username {
				delete(d.Texts, pages.SelectorErrorToaster)
				return
			}
		}
		d.Texts[pages.SelectorErrorToaster] = pages.InvalidUserNameMessage
	}
	return d
}

func (d *Driver) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	d.Lock()
	defer d.Unlock()
	if d.GotoErr != nil {
		return nil, d.GotoErr
	}
	d.Visited = append(d.Visited, url)
	return nil, nil
}

func (d *Driver) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &locator{driver: d, selector: selector}
}

var _ playwright.Locator = (*locator)(nil)

func (d *Driver) Content() (string, error) {
	d.Lock()
	defer d.Unlock()

	var sb strings.Builder
	sb.WriteString("<html><body><form>")
	sb.WriteString(`<input id="username" type="text">`)
	sb.WriteString(`<input id="password" type="password">`)
	sb.WriteString(`<button id="submit" type="submit">Login</button>`)
	sb.WriteString("</form>")
	if text, ok := d.Texts[pages.SelectorErrorToaster]; ok {
		sb.WriteString(fmt.Sprintf(`<div id="error">%s</div>`, html.EscapeString(text)))
	}
	sb.WriteString("</body></html>")
	return sb.String(), nil
}

func (d *Driver) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	d.Lock()
	defer d.Unlock()
	for _, opt := range options {
		if opt.Path != nil {
			d.Screenshots = append(d.Screenshots, *opt.Path)
		}
	}
	return []byte{}, nil
}

func (d *Driver) IsClosed() bool {
	d.Lock()
	defer d.Unlock()
	return d.Closed
}

func (d *Driver) Close(options ...playwright.PageCloseOptions) error {
	d.Lock()
	defer d.Unlock()
	d.Closed = true
	return nil
}

// unimplementedLocator is embedded under its own name so the interface's
// Locator method is promoted instead of shadowed by a field called Locator.
type unimplementedLocator = playwright.Locator

// locator implements only the methods the page objects call. Anything else
// hits the nil embedded interface and panics.
type locator struct {
	unimplementedLocator
	driver   *Driver
	selector string
}

func (l *locator) First() playwright.Locator {
	return l
}

func (l *locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.driver.Lock()
	defer l.driver.Unlock()
	if err := l.driver.Errors[l.selector]; err != nil {
		return err
	}
	l.driver.Values[l.selector] = value
	return nil
}

func (l *locator) Click(options ...playwright.LocatorClickOptions) error {
	l.driver.Lock()
	defer l.driver.Unlock()
	if err := l.driver.Errors[l.selector]; err != nil {
		return err
	}
	l.driver.Clicks[l.selector]++
	if fn, ok := l.driver.OnClick[l.selector]; ok {
		fn(l.driver)
	}
	return nil
}

func (l *locator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	l.driver.Lock()
	defer l.driver.Unlock()
	if _, ok := l.driver.Texts[l.selector]; !ok {
		return fmt.Errorf("%w: %s", ErrTimeout, l.selector)
	}
	return nil
}

func (l *locator) InnerText(options ...playwright.LocatorInnerTextOptions) (string, error) {
	l.driver.Lock()
	defer l.driver.Unlock()
	if err := l.driver.Errors[l.selector]; err != nil {
		return "", err
	}
	text, ok := l.driver.Texts[l.selector]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTimeout, l.selector)
	}
	return text, nil
}
