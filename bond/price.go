package bond

import (
	"fmt"
	"time"
)

// Price values one Treasury record at the given settlement date.
//
// Bills are discount instruments and their end-of-day price is already the
// dirty price, so accrual is skipped. Notes and bonds treat the end-of-day
// price as clean and add accrued interest on a face value of 100.
func Price(rec Record, settlement time.Time, freq Frequency) (*PriceResult, error) {
	kind, err := ParseKind(rec.SecurityType)
	if err != nil {
		return nil, fmt.Errorf("security %s: %w", rec.CUSIP, err)
	}
	maturity, err := ParseDate(rec.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("security %s maturity: %w", rec.CUSIP, err)
	}

	res := &PriceResult{
		CUSIP:          rec.CUSIP,
		Kind:           kind,
		MaturityDate:   maturity,
		SettlementDate: NormalizeToCalendarDay(settlement),
	}

	if !kind.HasCoupon() {
		res.DirtyPrice = rec.EndOfDayPrice
		return res, nil
	}

	if rec.CouponRate == nil {
		return nil, fmt.Errorf("security %s: %w for %s", rec.CUSIP, ErrMissingCouponRate, kind)
	}

	accrued, err := CalculateAccrued(Instrument{
		MaturityDate: maturity,
		CouponRate:   *rec.CouponRate,
		FaceValue:    DefaultFaceValue,
		Kind:         kind,
	}, Quote{
		CleanPrice:     rec.EndOfDayPrice,
		SettlementDate: settlement,
	}, freq)
	if err != nil {
		return nil, fmt.Errorf("security %s: %w", rec.CUSIP, err)
	}

	clean := rec.EndOfDayPrice
	res.CleanPrice = &clean
	res.Accrued = accrued
	res.DirtyPrice = accrued.DirtyPrice
	return res, nil
}
