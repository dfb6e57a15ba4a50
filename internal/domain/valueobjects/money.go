// Package valueobjects holds the Amount value object: the canonical
// fixed-point representation for every balance and transaction amount.
//
// Value Object Pattern:
// - Immutable: every operation returns a new Amount.
// - Self-validating: cannot construct a non-finite or malformed Amount.
package valueobjects

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount carries. It matches
// the NUMERIC(20,2) column type backing balances and transaction amounts.
const Scale = 2

// MaxDigits is the maximum total digit count (integer + fractional part) an
// Amount may hold, matching the NUMERIC(20,2) column width.
const MaxDigits = 20

var (
	ErrInvalidAmount  = errors.New("amount is not a finite decimal number")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrAmountTooLarge = errors.New("amount exceeds the maximum representable magnitude")
)

// Amount is an exact, non-binary-float decimal quantity scaled to two
// fractional digits. It is the only numeric type the ledger ever computes
// with; it is never derived from or converted to float64 for arithmetic.
type Amount struct {
	value decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{value: decimal.Zero}

// NewAmount parses a decimal string or numeric literal (as produced by
// JSON unmarshalling a number) into an Amount rounded to Scale fractional
// digits. It rejects non-finite, non-numeric, and negative input.
func NewAmount(raw string) (Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return fromDecimal(d)
}

// NewAmountFromFloat is reserved for boundary code that must accept a JSON
// number literal; it is never used inside the engine's own arithmetic.
func NewAmountFromFloat(f float64) (Amount, error) {
	return fromDecimal(decimal.NewFromFloat(f))
}

func fromDecimal(d decimal.Decimal) (Amount, error) {
	if d.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	rounded := d.Round(Scale)
	if len(rounded.Coefficient().String()) > MaxDigits {
		return Amount{}, ErrAmountTooLarge
	}
	return Amount{value: rounded}, nil
}

// MustAmount panics on a malformed literal; reserved for seed data and tests.
func MustAmount(raw string) Amount {
	a, err := NewAmount(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount with exactly Scale fractional digits, e.g. "50.00".
func (a Amount) String() string {
	return a.value.StringFixed(Scale)
}

// Decimal exposes the underlying decimal.Decimal for repository scan/value hooks.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.value.Sign() > 0 }

// Add returns a new Amount equal to a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value).Round(Scale)}
}

// Sub returns a new Amount equal to a - other, which may be negative;
// callers are responsible for rejecting a negative result (§4.3 step 6).
func (a Amount) Sub(other Amount) Amount {
	return Amount{value: a.value.Sub(other.value).Round(Scale)}
}

// IsNegative reports whether the amount is strictly less than zero. Only
// reachable as an intermediate result of Sub before the caller validates it.
func (a Amount) IsNegative() bool { return a.value.Sign() < 0 }

// Cmp compares two amounts: -1, 0, or 1.
func (a Amount) Cmp(other Amount) int { return a.value.Cmp(other.value) }

// Equal reports whether two amounts denote the same value.
func (a Amount) Equal(other Amount) bool { return a.value.Equal(other.value) }

// Value implements driver.Valuer so an Amount can be written directly to a
// NUMERIC(20,2) column.
func (a Amount) Value() (driver.Value, error) {
	return a.value.StringFixed(Scale), nil
}

// Scan implements sql.Scanner so an Amount can be read directly from a
// NUMERIC(20,2) column.
func (a *Amount) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	got, err := fromDecimal(d)
	if err != nil {
		return err
	}
	*a = got
	return nil
}
