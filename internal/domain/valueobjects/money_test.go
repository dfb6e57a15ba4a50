// Package valueobjects_test exercises Amount in isolation: no external
// dependencies, pure domain logic.
package valueobjects_test

import (
	"testing"

	"github.com/vaultcoin/ledgercore/internal/domain/valueobjects"
)

func TestNewAmount_Success(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "whole number", raw: "100", want: "100.00"},
		{name: "two decimals", raw: "100.50", want: "100.50"},
		{name: "rounds to scale", raw: "0.005", want: "0.01"},
		{name: "zero", raw: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := valueobjects.NewAmount(tt.raw)
			if err != nil {
				t.Fatalf("NewAmount(%q) returned error: %v", tt.raw, err)
			}
			if got := a.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewAmount_NegativeRejected(t *testing.T) {
	_, err := valueobjects.NewAmount("-1.00")
	if err == nil {
		t.Fatal("expected error for negative amount, got nil")
	}
}

func TestNewAmount_InvalidFormat(t *testing.T) {
	invalid := []string{"abc", "12.34.56", "", "not-a-number", "NaN", "Inf"}
	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			_, err := valueobjects.NewAmount(raw)
			if err == nil {
				t.Errorf("expected error for invalid amount %q, got nil", raw)
			}
		})
	}
}

func TestNewAmount_TooLarge(t *testing.T) {
	_, err := valueobjects.NewAmount("999999999999999999999.00")
	if err == nil {
		t.Fatal("expected ErrAmountTooLarge, got nil")
	}
}

func TestAmount_AddSub(t *testing.T) {
	a := valueobjects.MustAmount("50.00")
	b := valueobjects.MustAmount("20.00")

	sum := a.Add(b)
	if sum.String() != "70.00" {
		t.Errorf("Add: got %s, want 70.00", sum.String())
	}

	diff := a.Sub(b)
	if diff.String() != "30.00" {
		t.Errorf("Sub: got %s, want 30.00", diff.String())
	}
}

func TestAmount_SubNegativeIsDetectable(t *testing.T) {
	a := valueobjects.MustAmount("20.00")
	b := valueobjects.MustAmount("50.00")

	diff := a.Sub(b)
	if !diff.IsNegative() {
		t.Fatal("expected Sub to produce a negative intermediate result")
	}
}

func TestAmount_Comparisons(t *testing.T) {
	a := valueobjects.MustAmount("10.00")
	b := valueobjects.MustAmount("10.00")
	c := valueobjects.MustAmount("10.01")

	if !a.Equal(b) {
		t.Error("expected 10.00 == 10.00")
	}
	if a.Cmp(c) >= 0 {
		t.Error("expected 10.00 < 10.01")
	}
	if !valueobjects.Zero.IsZero() {
		t.Error("expected Zero.IsZero() == true")
	}
	if a.IsZero() {
		t.Error("expected 10.00 to not be zero")
	}
	if !a.IsPositive() {
		t.Error("expected 10.00 to be positive")
	}
}

func TestAmount_ValueScanRoundTrip(t *testing.T) {
	a := valueobjects.MustAmount("1234.56")

	driverValue, err := a.Value()
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}

	var scanned valueobjects.Amount
	if err := scanned.Scan(driverValue); err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}

	if !scanned.Equal(a) {
		t.Errorf("round-trip mismatch: got %s, want %s", scanned.String(), a.String())
	}
}
