package domain

import "github.com/shopspring/decimal"

// Money fields of every type in this module encode as JSON numbers, since the
// browser UI does arithmetic on prices and totals. Decoding accepts numbers
// and quoted strings alike.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
