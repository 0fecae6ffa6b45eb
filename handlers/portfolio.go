package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type positionRow struct {
	Symbol string
	Name   string
	Shares int64
	Price  string
	Total  string
}

// Index shows the portfolio: every held stock priced with a live quote, cash,
// and the grand total. Symbols the provider cannot resolve show without a
// price and are left out of the totals.
func (h *Handlers) Index(c *gin.Context) {
	userID := currentUser(c)

	snapshot, err := h.Valuator.Snapshot(c.Request.Context(), userID)
	if err != nil {
		serverError(c)
		return
	}

	rows := make([]positionRow, 0, len(snapshot.Positions))
	for _, p := range snapshot.Positions {
		row := positionRow{
			Symbol: p.Symbol,
			Name:   p.Name,
			Shares: p.Shares,
			Price:  "unavailable",
			Total:  "unavailable",
		}
		if p.Price != nil {
			row.Price = USD(*p.Price)
			row.Total = USD(*p.Value)
		}
		rows = append(rows, row)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Positions": rows,
		"Cash":      USD(snapshot.Cash),
		"Total":     USD(snapshot.Total),
	})
}

type historyRow struct {
	Stock  string
	Shares int64
	Price  string
	Date   string
}

// History lists every transaction the user has recorded, oldest first.
func (h *Handlers) History(c *gin.Context) {
	userID := currentUser(c)

	transactions, err := h.Store.TransactionsForUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c)
		return
	}

	rows := make([]historyRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, historyRow{
			Stock:  t.Stock,
			Shares: t.Shares,
			Price:  USD(t.StockPrice),
			Date:   t.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}

	c.HTML(http.StatusOK, "history.html", gin.H{"History": rows})
}
