// Package receipt renders bills as PDF receipts.
package receipt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"pharmacy/m/domain"
)

// Options controls the receipt header and footer.
type Options struct {
	PharmacyName string
	PrintedAt    time.Time
}

// Render builds a PDF receipt for bill.
func Render(bill domain.Bill, opts Options) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, opts.PharmacyName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Receipt #"+strconv.FormatInt(bill.ID, 10), props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Customer: "+bill.CustomerName, props.Text{Top: 0}),
			text.New("Payment method: "+bill.PaymentMethod, props.Text{Top: 5}),
			text.New("Date: "+bill.Date, props.Text{Top: 10}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(6, "Medicine", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Quantity", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range bill.Medicines {
		m.AddRow(8,
			text.NewCol(6, line.MedName, props.Text{Size: 9}),
			text.NewCol(2, line.Price.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, strconv.FormatInt(line.Quantity, 10), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Subtotal().StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
		text.NewCol(2, bill.TotalAmount.StringFixed(2), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)

	m.AddRow(15,
		text.NewCol(12, "Thank you for your purchase!", props.Text{Size: 10, Align: align.Center, Top: 5}),
	)
	if !opts.PrintedAt.IsZero() {
		m.AddRow(8,
			text.NewCol(12, "Printed "+opts.PrintedAt.Format("2006-01-02 15:04"), props.Text{Size: 7, Align: align.Center}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt for bill %d: %w", bill.ID, err)
	}
	return doc.GetBytes(), nil
}
