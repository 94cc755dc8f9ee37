package pages

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LoginPageState is what a static HTML snapshot says about the login form.
type LoginPageState struct {
	HasUserNameField bool
	HasPasswordField bool
	HasSubmitButton  bool
	HasErrorToaster  bool
	ErrorText        string
}

func (s LoginPageState) FormComplete() bool {
	return s.HasUserNameField && s.HasPasswordField && s.HasSubmitButton
}

func (s LoginPageState) ErrorDisplayed() bool {
	return s.ErrorText == InvalidUserNameMessage
}

func ParseLoginPage(page io.Reader) (LoginPageState, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return LoginPageState{}, err
	}

	toaster := doc.Find(SelectorErrorToaster).First()

	return LoginPageState{
		HasUserNameField: doc.Find(SelectorUserName).Length() > 0,
		HasPasswordField: doc.Find(SelectorUserPassword).Length() > 0,
		HasSubmitButton:  doc.Find(SelectorSubmit).Length() > 0,
		HasErrorToaster:  toaster.Length() > 0,
		ErrorText:        strings.TrimSpace(toaster.Text()),
	}, nil
}
