// Package treasury prices U.S. Treasury securities for the agent.
package treasury

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/va6996/deskagent/bond"
	"github.com/va6996/deskagent/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SecurityLookup fetches the latest record for a CUSIP. Missing securities
// must be reported with bond.ErrRecordNotFound.
type SecurityLookup interface {
	LookupSecurity(ctx context.Context, cusip string) (bond.Record, error)
}

// Client prices securities from a SecurityLookup.
type Client struct {
	Lookup    SecurityLookup
	Frequency bond.Frequency
	// Settlement pins every valuation when non-zero.
	Settlement time.Time
	Now        func() time.Time

	printer *message.Printer
}

// NewClient builds a pricing client. settlementDate may be empty, in which
// case settlement is T+1 from Now.
func NewClient(lookup SecurityLookup, frequency int, settlementDate string) (*Client, error) {
	freq := bond.Frequency(frequency)
	if err := freq.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		Lookup:    lookup,
		Frequency: freq,
		Now:       time.Now,
		printer:   message.NewPrinter(language.English),
	}
	if strings.TrimSpace(settlementDate) != "" {
		d, err := bond.ParseDate(settlementDate)
		if err != nil {
			return nil, fmt.Errorf("settlement date: %w", err)
		}
		c.Settlement = d
	}
	return c, nil
}

// DefaultSettlement returns the configured settlement date or T+1 from now.
func (c *Client) DefaultSettlement() time.Time {
	if !c.Settlement.IsZero() {
		return c.Settlement
	}
	return bond.NextSettlementDate(localDay(c.Now()))
}

// localDay is the calendar day of t in its own location, as a UTC date.
func localDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type PriceInput struct {
	CUSIP          string `json:"cusip" description:"9-character CUSIP, e.g. 91282CJL6"`
	SettlementDate string `json:"settlement_date,omitempty" description:"Settlement date YYYY-MM-DD; defaults to the next T+1 business day"`
}

type Display struct {
	CleanPrice      string `json:"clean_price,omitempty"`
	AccruedInterest string `json:"accrued_interest,omitempty"`
	DirtyPrice      string `json:"dirty_price"`
}

type PriceOutput struct {
	CUSIP               string   `json:"cusip"`
	Kind                string   `json:"kind"`
	MaturityDate        string   `json:"maturity_date"`
	SettlementDate      string   `json:"settlement_date"`
	CleanPrice          *float64 `json:"clean_price,omitempty"`
	AccruedInterest     *float64 `json:"accrued_interest,omitempty"`
	DirtyPrice          float64  `json:"dirty_price"`
	LastCouponDate      string   `json:"last_coupon_date,omitempty"`
	NextCouponDate      string   `json:"next_coupon_date,omitempty"`
	DaysSinceLastCoupon *int     `json:"days_since_last_coupon,omitempty"`
	DaysInPeriod        *int     `json:"days_in_period,omitempty"`
	Display             Display  `json:"display"`
}

// Price looks up a security and values it at the requested settlement date.
func (c *Client) Price(ctx context.Context, input *PriceInput) (*PriceOutput, error) {
	if input == nil || strings.TrimSpace(input.CUSIP) == "" {
		return nil, fmt.Errorf("cusip is required")
	}
	cusip := strings.ToUpper(strings.TrimSpace(input.CUSIP))

	settlement := c.DefaultSettlement()
	if s := strings.TrimSpace(input.SettlementDate); s != "" {
		d, err := bond.ParseDate(s)
		if err != nil {
			return nil, err
		}
		settlement = d
	}

	rec, err := c.Lookup.LookupSecurity(ctx, cusip)
	if err != nil {
		log.Errorf(ctx, "Price lookup failed for %s: %v", cusip, err)
		return nil, fmt.Errorf("security %s: %w", cusip, err)
	}

	res, err := bond.Price(rec, settlement, c.Frequency)
	if err != nil {
		log.Errorf(ctx, "Price failed for %s: %v", cusip, err)
		return nil, err
	}
	log.Debugf(ctx, "Priced %s (%s) at %s: dirty %.6f", cusip, res.Kind, bond.FormatDate(res.SettlementDate), res.DirtyPrice)
	return c.toOutput(res), nil
}

func (c *Client) toOutput(res *bond.PriceResult) *PriceOutput {
	out := &PriceOutput{
		CUSIP:          res.CUSIP,
		Kind:           string(res.Kind),
		MaturityDate:   bond.FormatDate(res.MaturityDate),
		SettlementDate: bond.FormatDate(res.SettlementDate),
		CleanPrice:     res.CleanPrice,
		DirtyPrice:     res.DirtyPrice,
		Display: Display{
			DirtyPrice: c.format(res.DirtyPrice),
		},
	}
	if res.CleanPrice != nil {
		out.Display.CleanPrice = c.format(*res.CleanPrice)
	}
	if a := res.Accrued; a != nil {
		accrued := a.AccruedInterest
		days, inPeriod := a.DaysSinceLastCoupon, a.DaysInPeriod
		out.AccruedInterest = &accrued
		out.DaysSinceLastCoupon = &days
		out.DaysInPeriod = &inPeriod
		out.LastCouponDate = bond.FormatDate(a.Period.Start)
		out.NextCouponDate = bond.FormatDate(a.Period.End)
		out.Display.AccruedInterest = c.format(accrued)
	}
	return out
}

func (c *Client) format(v float64) string {
	if c.printer == nil {
		c.printer = message.NewPrinter(language.English)
	}
	return c.printer.Sprintf("%.6f", v)
}

type SettlementInput struct {
	TradeDate string `json:"trade_date,omitempty" description:"Trade date YYYY-MM-DD; defaults to today"`
}

type SettlementOutput struct {
	TradeDate      string `json:"trade_date"`
	SettlementDate string `json:"settlement_date"`
	Weekday        string `json:"weekday"`
}

// SettlementDate applies T+1 settlement to the trade date.
func (c *Client) SettlementDate(ctx context.Context, input *SettlementInput) (*SettlementOutput, error) {
	trade := localDay(c.Now())
	if input != nil && strings.TrimSpace(input.TradeDate) != "" {
		d, err := bond.ParseDate(input.TradeDate)
		if err != nil {
			return nil, err
		}
		trade = d
	}
	settle := bond.NextSettlementDate(trade)
	return &SettlementOutput{
		TradeDate:      bond.FormatDate(trade),
		SettlementDate: bond.FormatDate(settle),
		Weekday:        settle.Weekday().String(),
	}, nil
}
