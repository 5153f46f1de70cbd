package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/va6996/deskagent/bond"
	"gorm.io/gorm"
)

// TreasurySecurity is one row of the end-of-day Treasury price table.
type TreasurySecurity struct {
	CUSIP        string `gorm:"primaryKey;column:cusip" json:"cusip"`
	SecurityType string `gorm:"index" json:"securityType"`
	// Rate is the coupon in percent; NULL for bills.
	Rate *float64 `json:"rate,omitempty"`
	// MaturityDate is kept as the ISO string the price feed delivers.
	MaturityDate string    `json:"maturityDate"`
	EndOfDay     float64   `json:"endOfDay"`
	PriceDate    string    `json:"priceDate,omitempty"`
	UpdatedAt    time.Time `json:"-"`
}

func (TreasurySecurity) TableName() string {
	return "treasury_securities"
}

// ToRecord converts the row into the calculator's input record.
func (s *TreasurySecurity) ToRecord() bond.Record {
	rec := bond.Record{
		CUSIP:         s.CUSIP,
		SecurityType:  s.SecurityType,
		MaturityDate:  s.MaturityDate,
		EndOfDayPrice: s.EndOfDay,
	}
	if s.Rate != nil {
		rec.CouponRate = bond.Rate(*s.Rate)
	}
	return rec
}

func normalizeCUSIP(cusip string) string {
	return strings.ToUpper(strings.TrimSpace(cusip))
}

// GetSecurity fetches a security by CUSIP. A missing row is reported as
// bond.ErrRecordNotFound.
func GetSecurity(db *gorm.DB, cusip string) (*TreasurySecurity, error) {
	var sec TreasurySecurity
	err := db.Where("cusip = ?", normalizeCUSIP(cusip)).First(&sec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cusip %s", bond.ErrRecordNotFound, cusip)
	}
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

// UpsertSecurity inserts or replaces a security row.
func UpsertSecurity(db *gorm.DB, sec *TreasurySecurity) error {
	if sec == nil {
		return errors.New("security is nil")
	}
	sec.CUSIP = normalizeCUSIP(sec.CUSIP)
	if sec.CUSIP == "" {
		return errors.New("cusip is required")
	}
	return db.Save(sec).Error
}

// ListSecurities returns securities ordered by maturity, optionally filtered by
// security type (case-insensitive).
func ListSecurities(db *gorm.DB, securityType string) ([]TreasurySecurity, error) {
	var secs []TreasurySecurity
	q := db.Order("maturity_date, cusip")
	if securityType != "" {
		q = q.Where("LOWER(security_type) = ?", strings.ToLower(securityType))
	}
	if err := q.Find(&secs).Error; err != nil {
		return nil, err
	}
	return secs, nil
}

// SecurityStore serves security lookups for the pricing tool.
type SecurityStore struct {
	db *gorm.DB
}

func NewSecurityStore(db *gorm.DB) *SecurityStore {
	return &SecurityStore{db: db}
}

// LookupSecurity implements treasury.SecurityLookup.
func (s *SecurityStore) LookupSecurity(ctx context.Context, cusip string) (bond.Record, error) {
	sec, err := GetSecurity(s.db.WithContext(ctx), cusip)
	if err != nil {
		return bond.Record{}, err
	}
	return sec.ToRecord(), nil
}
