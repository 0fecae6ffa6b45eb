// Package handlers exposes the browser-facing routes: account management,
// quote lookup, the portfolio and history pages, and the buy/sell forms. All
// core arithmetic lives in the ledger, portfolio and trading packages; the
// handlers translate forms in and rendered pages out.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/config"
	"papertrade/ledger"
	"papertrade/middleware"
	"papertrade/portfolio"
	"papertrade/quotes"
	"papertrade/trading"
)

type Handlers struct {
	Store    ledger.Store
	Users    ledger.UserStore
	Quotes   quotes.Provider
	Valuator *portfolio.Valuator
	Executor *trading.Executor
	Policy   config.PasswordPolicy

	// NewSession mints a session token for a user id. Replaceable in tests.
	NewSession func(ctx context.Context, userID uint) (string, error)
}

func New(store ledger.Store, users ledger.UserStore, provider quotes.Provider, valuator *portfolio.Valuator, executor *trading.Executor, policy config.PasswordPolicy) *Handlers {
	return &Handlers{
		Store:      store,
		Users:      users,
		Quotes:     provider,
		Valuator:   valuator,
		Executor:   executor,
		Policy:     policy,
		NewSession: middleware.NewSession,
	}
}

// currentUser returns the authenticated user id set by the session middleware.
func currentUser(c *gin.Context) uint {
	return c.MustGet("user_id").(uint)
}

// serverError renders the generic failure page for infrastructure errors.
func serverError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Code":    http.StatusInternalServerError,
		"Message": "Something went wrong",
	})
}
