package domain

import "github.com/shopspring/decimal"

// Amounts and prices travel as JSON numbers, the way the services send them.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
