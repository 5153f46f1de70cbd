package clock

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// EvaluateExpression runs a JavaScript date expression with goja. The
// variable now holds now as epoch milliseconds. The expression must produce a
// Date object or an RFC3339 string.
func EvaluateExpression(expression string, now time.Time) (time.Time, error) {
	if expression == "" {
		return time.Time{}, fmt.Errorf("expression is required")
	}

	vm := goja.New()
	if err := vm.Set("now", now.UnixMilli()); err != nil {
		return time.Time{}, fmt.Errorf("failed to set 'now': %w", err)
	}

	val, err := vm.RunString(expression)
	if err != nil {
		return time.Time{}, fmt.Errorf("js execution failed: %w", err)
	}

	switch exported := val.Export().(type) {
	case nil:
		return time.Time{}, fmt.Errorf("result is null or undefined")
	case time.Time:
		return exported, nil
	case string:
		t, err := time.Parse(time.RFC3339, exported)
		if err != nil {
			return time.Time{}, fmt.Errorf("result %q is not an RFC3339 timestamp", exported)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("result is not a valid Date object or ISO string, got %T", exported)
	}
}
