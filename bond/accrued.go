package bond

import "fmt"

// CalculateAccrued computes accrued interest and dirty price under
// Actual/Actual, with the coupon period resolved from the instrument's
// maturity.
//
//	fraction = days(lastCoupon, settlement) / days(lastCoupon, nextCoupon)
//	coupon   = rate/100 * face / frequency
//	accrued  = coupon * fraction
//	dirty    = clean + accrued * 100/face
//
// Accrued interest is in face-value units; the dirty price stays on the
// per-100 basis of the clean quote.
func CalculateAccrued(inst Instrument, quote Quote, freq Frequency) (*AccruedResult, error) {
	face := inst.face()
	if face <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFaceValue, face)
	}

	period, err := ResolveCouponPeriod(quote.SettlementDate, inst.MaturityDate, freq)
	if err != nil {
		return nil, err
	}

	daysSince := DaysBetween(period.Start, quote.SettlementDate)
	daysIn := period.Days()
	if daysIn <= 0 {
		return nil, ErrZeroLengthPeriod
	}

	fraction := float64(daysSince) / float64(daysIn)
	coupon := inst.CouponRate / 100 * face / float64(freq)
	accrued := coupon * fraction

	return &AccruedResult{
		Period:              period,
		FractionElapsed:     fraction,
		DaysSinceLastCoupon: daysSince,
		DaysInPeriod:        daysIn,
		CouponPerPeriod:     coupon,
		AccruedInterest:     accrued,
		DirtyPrice:          quote.CleanPrice + accrued*(DefaultFaceValue/face),
	}, nil
}
