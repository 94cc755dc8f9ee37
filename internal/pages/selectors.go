package pages

// CSS selectors for the login form.
const (
	SelectorUserName     = "input#username"
	SelectorUserPassword = "input#password"
	SelectorSubmit       = "button#submit"
	SelectorErrorToaster = "div#error"
)

// InvalidUserNameMessage is the toaster text shown for an unknown username.
const InvalidUserNameMessage = "Your username is invalid!"
