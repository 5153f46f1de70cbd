package bond

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the Treasury security type.
type Kind string

const (
	Bill Kind = "Bill"
	Note Kind = "Note"
	Bond Kind = "Bond"
)

// DefaultFaceValue is the quoting basis for Treasury prices.
const DefaultFaceValue = 100.0

// ParseKind accepts the security type as stored by the price feed ("Bill",
// "NOTE", "bond", ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bill":
		return Bill, nil
	case "note":
		return Note, nil
	case "bond":
		return Bond, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// HasCoupon reports whether the semiannual coupon model applies.
func (k Kind) HasCoupon() bool {
	return k == Note || k == Bond
}

// Instrument holds the static terms needed for accrual.
type Instrument struct {
	MaturityDate time.Time
	// CouponRate is the annual coupon in percent (e.g. 4.0 for 4%).
	CouponRate float64
	// FaceValue defaults to 100 when zero.
	FaceValue float64
	Kind      Kind
}

func (i Instrument) face() float64 {
	if i.FaceValue == 0 {
		return DefaultFaceValue
	}
	return i.FaceValue
}

// Quote is a clean price observed for a settlement date.
type Quote struct {
	CleanPrice     float64
	SettlementDate time.Time
}

// CouponPeriod is the coupon interval bracketing a settlement date:
// Start <= settlement < End.
type CouponPeriod struct {
	Start time.Time
	End   time.Time
}

// Days returns the actual number of days in the period.
func (p CouponPeriod) Days() int {
	return DaysBetween(p.Start, p.End)
}

// AccruedResult is the output of CalculateAccrued.
//
// Values are unrounded; formatting to a fixed number of decimals belongs to
// whoever presents them.
type AccruedResult struct {
	Period              CouponPeriod
	FractionElapsed     float64
	DaysSinceLastCoupon int
	DaysInPeriod        int
	CouponPerPeriod     float64
	AccruedInterest     float64
	DirtyPrice          float64
}

// Record is a single row from the Treasury price source.
type Record struct {
	CUSIP        string
	SecurityType string
	// CouponRate is in percent. Nil means the source has no rate, which is
	// only valid for bills.
	CouponRate    *float64
	MaturityDate  string
	EndOfDayPrice float64
}

// Rate returns a coupon rate for a Record.
func Rate(percent float64) *float64 {
	return &percent
}

// PriceResult is the structured answer for one security.
//
// CleanPrice and Accrued are nil for bills, which are quoted directly at
// their dirty price.
type PriceResult struct {
	CUSIP          string
	Kind           Kind
	MaturityDate   time.Time
	SettlementDate time.Time
	CleanPrice     *float64
	Accrued        *AccruedResult
	DirtyPrice     float64
}
