package bond

import "errors"

var (
	// ErrRecordNotFound is returned by lookups when no instrument matches the identifier.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidDate wraps any unparseable maturity or settlement date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrZeroLengthPeriod signals a coupon period with no days in it. It is an
	// invariant violation and is never turned into a NaN fraction.
	ErrZeroLengthPeriod = errors.New("coupon period has zero length")
	ErrInvalidFrequency = errors.New("invalid coupon frequency")
	// ErrSettlementAfterMaturity is returned when no coupon period can bracket the settlement date.
	ErrSettlementAfterMaturity = errors.New("settlement is on or after maturity")
	ErrUnsupportedKind         = errors.New("unsupported security kind")
	ErrInvalidFaceValue        = errors.New("face value must be positive")
	// ErrMissingCouponRate is returned when a Note or Bond record carries no coupon rate.
	ErrMissingCouponRate = errors.New("coupon rate is missing")
)
