package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/va6996/deskagent/bond"
	"github.com/va6996/deskagent/config"
	logcontext "github.com/va6996/deskagent/context"
	"github.com/va6996/deskagent/log"
	"github.com/va6996/deskagent/orm"
	"github.com/va6996/deskagent/plugins/treasury"
	"gorm.io/gorm"
)

type options struct {
	configPath string
	cusip      string
	settlement string
	load       string
	list       bool

	maturity string
	rate     *float64
	price    float64
	kind     string
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("bondcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "config.yaml", "config file")
	fs.StringVar(&opts.cusip, "cusip", "", "CUSIP to price from the securities table")
	fs.StringVar(&opts.settlement, "settlement", "", "settlement date YYYY-MM-DD (default T+1)")
	fs.StringVar(&opts.load, "load", "", "JSON file of securities to upsert before pricing")
	fs.BoolVar(&opts.list, "list", false, "list stored securities, filtered by -kind when given")
	fs.StringVar(&opts.maturity, "maturity", "", "ad-hoc instrument maturity YYYY-MM-DD")
	rate := fs.Float64("rate", 0, "ad-hoc coupon rate in percent (required for Note and Bond)")
	fs.Float64Var(&opts.price, "price", 0, "ad-hoc end-of-day price")
	fs.StringVar(&opts.kind, "kind", "", "security type: Bill, Note or Bond (ad-hoc default Note)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "rate" {
			opts.rate = rate
		}
	})
	if opts.cusip == "" && opts.maturity == "" && opts.load == "" && !opts.list {
		fs.Usage()
		return opts, errors.New("one of -cusip, -maturity, -load or -list is required")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	log.Init()
	log.SetOutput(stderr)
	ctx := logcontext.WithRequestID(context.Background(), logcontext.NewRequestID())

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	if err := log.SetLevelString(cfg.Log.Level); err != nil {
		return err
	}

	var lookup treasury.SecurityLookup
	cusip := opts.cusip
	if opts.maturity != "" {
		if cusip == "" {
			cusip = "ADHOC"
		}
		kind := opts.kind
		if kind == "" {
			kind = string(bond.Note)
		}
		lookup = staticLookup{rec: bond.Record{
			CUSIP:         strings.ToUpper(cusip),
			SecurityType:  kind,
			CouponRate:    opts.rate,
			MaturityDate:  opts.maturity,
			EndOfDayPrice: opts.price,
		}}
	} else {
		db, err := orm.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer orm.Close(db)

		if opts.load != "" {
			n, err := loadSecurities(ctx, db, opts.load)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "loaded %d securities\n", n)
		}
		if opts.list {
			if err := listSecurities(ctx, db, opts.kind, stdout); err != nil {
				return err
			}
		}
		if cusip == "" {
			return nil
		}
		lookup = orm.NewSecurityStore(db)
	}

	client, err := treasury.NewClient(lookup, cfg.Bond.CouponFrequency, cfg.Bond.SettlementDate)
	if err != nil {
		return err
	}
	out, err := client.Price(ctx, &treasury.PriceInput{CUSIP: cusip, SettlementDate: opts.settlement})
	if err != nil {
		return err
	}
	return printResult(stdout, out)
}

// staticLookup serves a single instrument given on the command line.
type staticLookup struct {
	rec bond.Record
}

func (s staticLookup) LookupSecurity(ctx context.Context, cusip string) (bond.Record, error) {
	if !strings.EqualFold(cusip, s.rec.CUSIP) {
		return bond.Record{}, bond.ErrRecordNotFound
	}
	return s.rec, nil
}

func loadSecurities(ctx context.Context, db *gorm.DB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var secs []orm.TreasurySecurity
	if err := json.Unmarshal(data, &secs); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	tx := db.WithContext(ctx)
	for i := range secs {
		if err := orm.UpsertSecurity(tx, &secs[i]); err != nil {
			return i, fmt.Errorf("security %d: %w", i, err)
		}
	}
	log.Infof(ctx, "Loaded %d securities from %s", len(secs), path)
	return len(secs), nil
}

func listSecurities(ctx context.Context, db *gorm.DB, kind string, w io.Writer) error {
	if kind != "" {
		if _, err := bond.ParseKind(kind); err != nil {
			return err
		}
	}
	secs, err := orm.ListSecurities(db.WithContext(ctx), kind)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUSIP\tKind\tRate\tMaturity\tEnd of day")
	for _, s := range secs {
		rate := "-"
		if s.Rate != nil {
			rate = fmt.Sprintf("%.3f", *s.Rate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.6f\n", s.CUSIP, s.SecurityType, rate, s.MaturityDate, s.EndOfDay)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d securities\n", len(secs))
	return nil
}

func printResult(w io.Writer, out *treasury.PriceOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
	row("CUSIP", out.CUSIP)
	row("Kind", out.Kind)
	row("Maturity", out.MaturityDate)
	row("Settlement", out.SettlementDate)
	row("Last coupon", out.LastCouponDate)
	row("Next coupon", out.NextCouponDate)
	if out.DaysSinceLastCoupon != nil {
		row("Days accrued", fmt.Sprintf("%d / %d", *out.DaysSinceLastCoupon, *out.DaysInPeriod))
	}
	row("Clean price", out.Display.CleanPrice)
	row("Accrued interest", out.Display.AccruedInterest)
	row("Dirty price", out.Display.DirtyPrice)
	return tw.Flush()
}
