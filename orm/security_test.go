package orm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/deskagent/bond"
)

func TestSecurityCRUD(t *testing.T) {
	db := SetupTestDB(t)

	note := &TreasurySecurity{
		CUSIP:        " 91282chb0 ",
		SecurityType: "Note",
		Rate:         ptr(4.0),
		MaturityDate: "2026-05-15",
		EndOfDay:     100.109375,
		PriceDate:    "2025-11-17",
	}
	require.NoError(t, UpsertSecurity(db, note))
	assert.Equal(t, "91282CHB0", note.CUSIP)

	fetched, err := GetSecurity(db, "91282chb0")
	require.NoError(t, err)
	assert.Equal(t, "Note", fetched.SecurityType)
	require.NotNil(t, fetched.Rate)
	assert.Equal(t, 4.0, *fetched.Rate)

	note.EndOfDay = 100.2
	require.NoError(t, UpsertSecurity(db, note))
	fetched, err = GetSecurity(db, "91282CHB0")
	require.NoError(t, err)
	assert.Equal(t, 100.2, fetched.EndOfDay)

	assert.Error(t, UpsertSecurity(db, nil))
	assert.Error(t, UpsertSecurity(db, &TreasurySecurity{CUSIP: "  "}))
}

func TestGetSecurity_NotFound(t *testing.T) {
	db := SetupTestDB(t)

	_, err := GetSecurity(db, "000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bond.ErrRecordNotFound))
}

func TestListSecurities(t *testing.T) {
	db := SetupTestDB(t)

	rows := []*TreasurySecurity{
		{CUSIP: "912810QL5", SecurityType: "Bond", Rate: ptr(4.375), MaturityDate: "2040-05-15", EndOfDay: 97.5},
		{CUSIP: "912797KX4", SecurityType: "Bill", MaturityDate: "2026-01-15", EndOfDay: 99.512},
		{CUSIP: "91282CHB0", SecurityType: "Note", Rate: ptr(4.0), MaturityDate: "2026-05-15", EndOfDay: 100.1},
	}
	for _, r := range rows {
		require.NoError(t, UpsertSecurity(db, r))
	}

	all, err := ListSecurities(db, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "912797KX4", all[0].CUSIP)
	assert.Equal(t, "912810QL5", all[2].CUSIP)

	bills, err := ListSecurities(db, "BILL")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Nil(t, bills[0].Rate)
}

func TestToRecord_CouponRate(t *testing.T) {
	note := &TreasurySecurity{CUSIP: "91282CHB0", SecurityType: "Note", Rate: ptr(4.0), MaturityDate: "2026-05-15", EndOfDay: 100}
	rec := note.ToRecord()
	require.NotNil(t, rec.CouponRate)
	assert.Equal(t, 4.0, *rec.CouponRate)

	missing := &TreasurySecurity{CUSIP: "91282CNUL", SecurityType: "Note", MaturityDate: "2026-05-15", EndOfDay: 100}
	assert.Nil(t, missing.ToRecord().CouponRate)

	_, err := bond.Price(missing.ToRecord(), time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC), bond.SemiAnnual)
	assert.True(t, errors.Is(err, bond.ErrMissingCouponRate))
}

func TestClose(t *testing.T) {
	db := SetupTestDB(t)
	require.NoError(t, Close(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestSecurityStore_LookupSecurity(t *testing.T) {
	db := SetupTestDB(t)
	require.NoError(t, UpsertSecurity(db, &TreasurySecurity{
		CUSIP: "912797KX4", SecurityType: "Bill", MaturityDate: "2026-01-15", EndOfDay: 99.512,
	}))

	store := NewSecurityStore(db)

	rec, err := store.LookupSecurity(context.Background(), "912797kx4")
	require.NoError(t, err)
	assert.Equal(t, bond.Record{
		CUSIP:         "912797KX4",
		SecurityType:  "Bill",
		MaturityDate:  "2026-01-15",
		EndOfDayPrice: 99.512,
	}, rec)

	_, err = store.LookupSecurity(context.Background(), "MISSING")
	assert.True(t, errors.Is(err, bond.ErrRecordNotFound))
}
