package pages_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielholmes839/loginpage/internal/pages"
	"github.com/danielholmes839/loginpage/internal/pages/pagestest"
)

func TestLoginPageChaining(t *testing.T) {
	driver := pagestest.NewLoginForm("tomsmith")
	lp := pages.NewLoginPage(driver)

	got := lp.Open("/login").
		EnterUserName("tomsmith").
		EnterUserPassword("SuperSecretPassword!").
		ClickSubmitButton()

	require.Same(t, lp, got)
	require.NoError(t, lp.Err())

	assert.Equal(t, []string{"/login"}, driver.Visited)
	assert.Equal(t, "tomsmith", driver.Values[pages.SelectorUserName])
	assert.Equal(t, "SuperSecretPassword!", driver.Values[pages.SelectorUserPassword])
	assert.Equal(t, 1, driver.Clicks[pages.SelectorSubmit])
}

func TestCheckIfErrorToasterDisplayed(t *testing.T) {
	t.Run("invalid username shows toaster", func(t *testing.T) {
		lp := pages.NewLoginPage(pagestest.NewLoginForm("tomsmith"))
		lp.Login("nobody", "secret")

		assert.True(t, lp.CheckIfErrorToasterDisplayed())
	})

	t.Run("valid username hides toaster", func(t *testing.T) {
		lp := pages.NewLoginPage(pagestest.NewLoginForm("tomsmith"))
		lp.Login("tomsmith", "secret")

		assert.False(t, lp.CheckIfErrorToasterDisplayed())

		_, err := lp.ErrorText()
		assert.ErrorIs(t, err, pages.ErrToasterMissing)
	})

	t.Run("text must match exactly", func(t *testing.T) {
		driver := pagestest.NewDriver()
		driver.Texts[pages.SelectorErrorToaster] = "Your password is invalid!"
		lp := pages.NewLoginPage(driver)

		assert.False(t, lp.CheckIfErrorToasterDisplayed())
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		driver := pagestest.NewDriver()
		driver.Texts[pages.SelectorErrorToaster] = "\n  " + pages.InvalidUserNameMessage + "\n×\n"
		lp := pages.NewLoginPage(driver)

		// the close glyph is part of the visible text, so this is not a match
		assert.False(t, lp.CheckIfErrorToasterDisplayed())

		driver.Texts[pages.SelectorErrorToaster] = "\n  " + pages.InvalidUserNameMessage + "\n"
		assert.True(t, lp.CheckIfErrorToasterDisplayed())
	})

	t.Run("unreadable toaster", func(t *testing.T) {
		driver := pagestest.NewDriver()
		driver.Texts[pages.SelectorErrorToaster] = pages.InvalidUserNameMessage
		driver.Errors[pages.SelectorErrorToaster] = errors.New("detached")
		lp := pages.NewLoginPage(driver)

		assert.False(t, lp.CheckIfErrorToasterDisplayed())
	})
}

func TestLoginPageStickyError(t *testing.T) {
	driver := pagestest.NewLoginForm()
	driver.Errors[pages.SelectorUserName] = errors.New("element not found")

	lp := pages.NewLoginPage(driver).Login("nobody", "secret")

	err := lp.Err()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "enter username"))

	// nothing after the failure reaches the driver
	assert.Empty(t, driver.Values[pages.SelectorUserPassword])
	assert.Zero(t, driver.Clicks[pages.SelectorSubmit])
	assert.False(t, lp.CheckIfErrorToasterDisplayed())

	_, err = lp.ErrorText()
	assert.ErrorIs(t, err, lp.Err())
}

func TestLoginPageOpenError(t *testing.T) {
	driver := pagestest.NewLoginForm()
	driver.GotoErr = errors.New("net::ERR_CONNECTION_REFUSED")

	lp := pages.NewLoginPage(driver).Open("/login").Login("nobody", "secret")

	require.ErrorIs(t, lp.Err(), driver.GotoErr)
	assert.Empty(t, driver.Values)
}

func TestLoginPageState(t *testing.T) {
	driver := pagestest.NewLoginForm()
	lp := pages.NewLoginPage(driver)

	state, err := lp.State()
	require.NoError(t, err)
	assert.True(t, state.FormComplete())
	assert.False(t, state.HasErrorToaster)

	lp.Login("nobody", "secret")

	state, err = lp.State()
	require.NoError(t, err)
	assert.True(t, state.ErrorDisplayed())
	assert.Equal(t, pages.InvalidUserNameMessage, state.ErrorText)
}

func TestLoginPageScreenshotAndClose(t *testing.T) {
	driver := pagestest.NewDriver()
	lp := pages.NewLoginPage(driver)

	require.NoError(t, lp.Screenshot("out/failure.png"))
	require.NoError(t, lp.Close())

	assert.Equal(t, []string{"out/failure.png"}, driver.Screenshots)
	assert.True(t, driver.Closed)
}
