// Package guard decides whether the current page must be left given the
// client's authentication decision. It has no side effects; the session
// coordinator performs the navigation.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
)

// Action is the outcome of Evaluate. The zero value means stay.
type Action struct {
	Redirect bool
	To       string
}

// NoAction leaves the user where they are.
var NoAction = Action{}

// RedirectTo returns an Action that moves to path.
func RedirectTo(path string) Action {
	return Action{Redirect: true, To: path}
}

// Evaluate sends an authenticated user away from the login and register
// pages to the home page. Matching is by substring, so "/login?next=x" and
// "/auth/register" are covered too.
func Evaluate(path string, decision models.AuthDecision) Action {
	if !decision.Authenticated() {
		return NoAction
	}
	if IsAuthPage(path) {
		return RedirectTo(common.HomePath)
	}
	return NoAction
}

// IsAuthPage reports whether path is a login or register page.
func IsAuthPage(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, "login") || strings.Contains(p, "register")
}

// Navigator moves the user between pages.
type Navigator interface {
	Navigate(path string)
	CurrentPath() string
}
