// Command billctl fills a billing form from flags, validates it against the
// inventory of a running server and submits it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pharmacy/m/domain"
	"pharmacy/m/internal/billing"
	"pharmacy/m/internal/client"
	"pharmacy/m/internal/logging"
)

type lineFlags []string

func (l *lineFlags) String() string { return strings.Join(*l, ", ") }

func (l *lineFlags) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var (
		apiURL   = flag.String("api", "http://localhost:8070", "billing API base URL")
		customer = flag.String("customer", "", "customer name")
		payment  = flag.String("payment", domain.PaymentCash, "payment method: Cash, Debit or Credit")
		date     = flag.String("date", time.Now().Format(domain.DateLayout), "bill date (YYYY-MM-DD)")
		dryRun   = flag.Bool("dry-run", false, "validate and print the total without submitting")
		logLevel = flag.String("log-level", "warn", "log level")
		lines    lineFlags
	)
	flag.Var(&lines, "line", `medicine line as "Name:quantity" or "Name:quantity:price", repeatable`)
	flag.Parse()

	log := logging.NewWithWriter(os.Stderr, "console", *logLevel)
	if err := run(log, *apiURL, *customer, *payment, *date, lines, *dryRun); err != nil {
		log.Error().Err(err).Msg("billing failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(log zerolog.Logger, apiURL, customer, payment, date string, lines []string, dryRun bool) error {
	if len(lines) == 0 {
		return errors.New("at least one -line is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(apiURL, nil)
	session, err := billing.NewSession(ctx, c, c, log)
	if err != nil {
		return err
	}

	f, err := buildForm(customer, payment, date, lines, session.Snapshot())
	if err != nil {
		return err
	}
	for _, l := range f.Lines {
		fmt.Printf("%-30s %5s x %8s\n", l.MedicineName, l.Quantity, l.Price)
	}
	fmt.Printf("Total: %s\n", f.Total())

	if dryRun {
		if _, err := billing.Prepare(f, session.Snapshot()); err != nil {
			return err
		}
		fmt.Println("Validation passed (dry run, nothing submitted)")
		return nil
	}

	bill, err := session.Submit(ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("Bill %d stored, total %s\n", bill.ID, bill.TotalAmount.StringFixed(2))
	return nil
}

// buildForm fills one form line per entry. A missing price is taken from the
// inventory record the name matches exactly.
func buildForm(customer, payment, date string, entries []string, snap *billing.Snapshot) (billing.Form, error) {
	f := billing.NewForm(date)
	f.CustomerName = customer
	f.PaymentMethod = payment

	for i, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return f, fmt.Errorf("line %q: want Name:quantity[:price]", entry)
		}
		if i > 0 {
			f = billing.AddLine(f)
		}
		name := strings.TrimSpace(parts[0])
		f = billing.SetMedicineName(f, i, name, snap)
		if rec, ok := snap.Lookup(name); ok {
			f = billing.SelectSuggestion(f, i, rec)
		}
		f = billing.SetLineField(f, i, billing.FieldQuantity, strings.TrimSpace(parts[1]))
		if len(parts) == 3 {
			f = billing.SetLineField(f, i, billing.FieldPrice, strings.TrimSpace(parts[2]))
		}
	}
	return f, nil
}
