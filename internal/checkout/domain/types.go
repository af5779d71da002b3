package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID string
	Title     string
	Image     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Summary is the priced working set of one checkout attempt.
type Summary struct {
	Lines    []Line
	Subtotal decimal.Decimal
	Delivery decimal.Decimal
	Total    decimal.Decimal
	// QuickBuy is set when the working set is a single catalog product
	// chosen outside the cart.
	QuickBuy   bool
	QuickBuyID string
}

func (s Summary) Empty() bool { return len(s.Lines) == 0 }

var ErrInvalidInput = errors.New("invalid input")

const (
	MsgMissingFields = "Please fill all required fields."
	MsgNoItems       = "No items in cart. Add items or use Quick Buy from products."
)

// ValidationError is a user-facing rejection of a submission. Nothing has
// been written when it is returned.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + " (missing: " + strings.Join(e.Fields, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
