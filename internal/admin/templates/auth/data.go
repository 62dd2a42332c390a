// Package auth holds the login screen view model.
package auth

// LoginPageData encapsulates rendering state for the admin login screen.
type LoginPageData struct {
	Email     string
	Error     string
	Next      string
	LoginPath string
	BasePath  string
	CSRFToken string
}
