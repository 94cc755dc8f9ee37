package browser

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielholmes839/loginpage/internal/pages"
)

const loginForm = `<!DOCTYPE html>
<html>
<body>
  <form onsubmit="return false;">
    <input type="text" id="username">
    <input type="password" id="password">
    <button type="button" id="submit" onclick="
      var valid = document.getElementById('username').value === 'tomsmith';
      document.getElementById('error').textContent = valid ? '' : 'Your username is invalid!';
    ">Submit</button>
  </form>
  <div id="error"></div>
</body>
</html>`

func TestSlug(t *testing.T) {
	assert.Equal(t, "unknown-user", Slug("Unknown user"))
	assert.Equal(t, "a-b-c", Slug("  a / b -- c!! "))
	assert.Equal(t, "page", Slug("///"))
	assert.Equal(t, filepath.Join("out", "known-user.png"), ScreenshotPath("out", "Known user"))
}

func TestLoginPageInBrowser(t *testing.T) {
	if os.Getenv("SKIP_BROWSER") == "true" {
		t.Skip("Skipping browser test")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, loginForm)
	}))
	defer server.Close()

	session, err := Launch(Options{
		BaseURL:  server.URL,
		Headless: true,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		t.Skipf("Could not start Playwright: %v (browsers may not be installed)", err)
		return
	}
	defer session.Close()

	t.Run("invalid username", func(t *testing.T) {
		lp, err := session.NewLoginPage()
		require.NoError(t, err)
		defer lp.Close()

		lp.Open("/login").
			EnterUserName("nobody").
			EnterUserPassword("secret").
			ClickSubmitButton()
		require.NoError(t, lp.Err())

		assert.True(t, lp.CheckIfErrorToasterDisplayed())

		state, err := lp.State()
		require.NoError(t, err)
		assert.True(t, state.FormComplete())
		assert.Equal(t, pages.InvalidUserNameMessage, state.ErrorText)
	})

	t.Run("valid username", func(t *testing.T) {
		lp, err := session.NewLoginPage()
		require.NoError(t, err)
		defer lp.Close()

		lp.WithToasterTimeout(500 * time.Millisecond).
			Open("/login").
			Login("tomsmith", "SuperSecretPassword!")
		require.NoError(t, lp.Err())

		assert.False(t, lp.CheckIfErrorToasterDisplayed())
	})

	t.Run("screenshot", func(t *testing.T) {
		lp, err := session.NewLoginPage()
		require.NoError(t, err)
		defer lp.Close()

		path := ScreenshotPath(t.TempDir(), "login form")
		require.NoError(t, lp.Open("/login").Err())
		require.NoError(t, lp.Screenshot(path))
		assert.FileExists(t, path)
	})
}
