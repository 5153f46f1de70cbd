package treasury

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/deskagent/tools"
)

// RegisterTools registers treasury_price and treasury_settlement_date.
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	tools.Define(gk, registry,
		"treasury_price",
		"Prices a U.S. Treasury Bill, Note or Bond by CUSIP. Returns clean price, accrued interest and dirty price per 100 face. Arguments: cusip (string), settlement_date (YYYY-MM-DD, optional).",
		c.Price,
	)
	tools.Define(gk, registry,
		"treasury_settlement_date",
		"Returns the T+1 settlement date for a trade date, skipping weekends. Arguments: trade_date (YYYY-MM-DD, optional).",
		c.SettlementDate,
	)
}
