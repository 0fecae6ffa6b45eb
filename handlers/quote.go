package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/quotes"
)

func (h *Handlers) QuotePage(c *gin.Context) {
	c.HTML(http.StatusOK, "quote.html", gin.H{})
}

// Quote resolves a symbol through the provider and shows its current price.
func (h *Handlers) Quote(c *gin.Context) {
	stock := c.PostForm("stock")
	if stock == "" {
		c.HTML(http.StatusOK, "quote.html", gin.H{"Error": "Please provide a stock symbol"})
		return
	}

	quote, err := h.Quotes.Lookup(c.Request.Context(), stock)
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "quoted.html", gin.H{
			"Symbol": quote.Symbol,
			"Name":   quote.Name,
			"Price":  USD(quote.Price),
		})
	case errors.Is(err, quotes.ErrUnknownSymbol):
		c.HTML(http.StatusOK, "quote.html", gin.H{"Error": "No such stock!"})
	case errors.Is(err, quotes.ErrUnavailable):
		c.HTML(http.StatusOK, "quote.html", gin.H{"Error": "Quote service unavailable, try again"})
	default:
		serverError(c)
	}
}
