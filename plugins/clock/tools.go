package clock

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/deskagent/tools"
)

const expressionDescription = `Executes JavaScript expression to calculate dates. Variable 'now' is available holding the current timestamp (milliseconds).
Return a Date object or ISO string. The last expression is the return value.
Examples:
- Next Friday: "var d = new Date(now); d.setDate(d.getDate() + (12 - d.getDay()) % 7); if(d.getDay() !== 5 || d <= now) d.setDate(d.getDate() + 7); d"
- Tomorrow: "new Date(now + 86400000)"`

// RegisterTools registers clock_local_time and clock_date_expression.
func (c *Client) RegisterTools(gk *genkit.Genkit, registry *tools.Registry) {
	tools.Define(gk, registry,
		"clock_local_time",
		"Returns the current local date and time for an IANA time zone or a place name. Arguments: timezone (string, optional), location (string, optional).",
		c.LocalTime,
	)
	tools.Define(gk, registry, "clock_date_expression", expressionDescription, c.Evaluate)
}
