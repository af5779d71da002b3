package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Image    string
	Category string
}
