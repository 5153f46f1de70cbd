package bond

import "time"

// NextSettlementDate applies T+1 settlement to a trade date.
//
// A Saturday result rolls forward two days and a Sunday one day, so the result is
// always Monday through Friday. Market holidays are not modelled.
func NextSettlementDate(trade time.Time) time.Time {
	d := NormalizeToCalendarDay(trade).AddDate(0, 0, 1)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}
