package bond

import (
	"fmt"
	"time"
)

// Frequency is the number of coupon payments per year.
type Frequency int

const (
	Annual     Frequency = 1
	SemiAnnual Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
)

// Validate rejects frequencies that do not divide the year into whole months.
func (f Frequency) Validate() error {
	switch f {
	case Annual, SemiAnnual, Quarterly, Monthly:
		return nil
	}
	return fmt.Errorf("%w: %d (want 1, 2, 4 or 12)", ErrInvalidFrequency, int(f))
}

// Months is the coupon step in months.
func (f Frequency) Months() int {
	return 12 / int(f)
}

// ResolveCouponPeriod finds the coupon period containing settlement.
//
// Coupons fall on maturity's day of month every 12/frequency months, counted
// backwards from maturity. Every candidate date is derived from maturity
// directly rather than from the previous candidate, so a month-end maturity
// keeps paying on month-ends after a short month clamps it.
func ResolveCouponPeriod(settlement, maturity time.Time, freq Frequency) (CouponPeriod, error) {
	if err := freq.Validate(); err != nil {
		return CouponPeriod{}, err
	}
	settlement = NormalizeToCalendarDay(settlement)
	maturity = NormalizeToCalendarDay(maturity)
	if !settlement.Before(maturity) {
		return CouponPeriod{}, fmt.Errorf("%w: settlement %s, maturity %s",
			ErrSettlementAfterMaturity, FormatDate(settlement), FormatDate(maturity))
	}

	step := freq.Months()
	next := maturity
	last := AddMonths(maturity, -step)
	for k := 2; settlement.Before(last); k++ {
		next = last
		last = AddMonths(maturity, -k*step)
	}

	p := CouponPeriod{Start: last, End: next}
	if p.Days() <= 0 {
		return CouponPeriod{}, fmt.Errorf("%w: %s to %s", ErrZeroLengthPeriod, FormatDate(p.Start), FormatDate(p.End))
	}
	return p, nil
}
