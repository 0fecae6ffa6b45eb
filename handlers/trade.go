package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"papertrade/quotes"
	"papertrade/trading"
)

func (h *Handlers) BuyPage(c *gin.Context) {
	c.HTML(http.StatusOK, "buy.html", gin.H{})
}

// Buy validates the form, then hands the order to the executor. A form
// problem is reported before the store or provider is touched.
func (h *Handlers) Buy(c *gin.Context) {
	userID := currentUser(c)

	stock, shares, message := tradeForm(c)
	if message != "" {
		c.HTML(http.StatusOK, "buy.html", gin.H{"Error": message})
		return
	}

	_, err := h.Executor.Buy(c.Request.Context(), userID, stock, shares)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, quotes.ErrUnknownSymbol):
		c.HTML(http.StatusOK, "buy.html", gin.H{"Error": "No such stock!"})
	case errors.Is(err, quotes.ErrUnavailable):
		c.HTML(http.StatusOK, "buy.html", gin.H{"Error": "Quote service unavailable, try again"})
	case errors.Is(err, trading.ErrInsufficientFunds):
		message := "Not enough cash!"
		if cash, cashErr := h.Store.Cash(c.Request.Context(), userID); cashErr == nil {
			message = fmt.Sprintf("Not enough cash! (%s remaining in your account)", USD(cash))
		}
		c.HTML(http.StatusOK, "buy.html", gin.H{"Error": message})
	default:
		serverError(c)
	}
}

// SellPage renders the sell form with a dropdown of currently owned symbols.
func (h *Handlers) SellPage(c *gin.Context) {
	userID := currentUser(c)

	symbols, err := h.Valuator.OwnedSymbols(c.Request.Context(), userID)
	if err != nil {
		serverError(c)
		return
	}
	c.HTML(http.StatusOK, "sell.html", gin.H{"Stocks": symbols})
}

func (h *Handlers) Sell(c *gin.Context) {
	userID := currentUser(c)

	stock, shares, message := tradeForm(c)
	if message != "" {
		h.sellError(c, userID, message)
		return
	}

	_, err := h.Executor.Sell(c.Request.Context(), userID, stock, shares)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, trading.ErrInsufficientShares):
		message := "You don't own enough shares"
		if holdings, holdErr := h.Valuator.Holdings(c.Request.Context(), userID); holdErr == nil {
			owned := holdings[strings.ToUpper(strings.TrimSpace(stock))]
			message = fmt.Sprintf("You only own %d share(s)", owned)
		}
		h.sellError(c, userID, message)
	case errors.Is(err, quotes.ErrUnknownSymbol):
		h.sellError(c, userID, "No such stock!")
	case errors.Is(err, quotes.ErrUnavailable):
		h.sellError(c, userID, "Quote service unavailable, try again")
	default:
		serverError(c)
	}
}

// tradeForm extracts and checks the shared buy/sell fields. The returned
// message is empty when the form is valid.
func tradeForm(c *gin.Context) (stock string, shares int64, message string) {
	stock = c.PostForm("stock")
	if stock == "" {
		return "", 0, "Missing stock symbol"
	}

	raw := c.PostForm("shares")
	if raw == "" {
		return "", 0, "Missing share amount"
	}

	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return "", 0, "Share amount must be a positive whole number"
	}
	return stock, shares, ""
}

func (h *Handlers) sellError(c *gin.Context, userID uint, message string) {
	symbols, err := h.Valuator.OwnedSymbols(c.Request.Context(), userID)
	if err != nil {
		symbols = nil
	}
	c.HTML(http.StatusOK, "sell.html", gin.H{"Stocks": symbols, "Error": message})
}
