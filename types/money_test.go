package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"BDT", BDT(500), 500, "bdt", "Tk 500"},
		{"BDT large", BDT(120050), 120050, "bdt", "Tk 120050"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"Zero BDT", Zero("BDT"), 0, "bdt", "Tk 0"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return BDT(500).Add(BDT(200)) }, BDT(700)},
		{"Subtract", func() Money { return BDT(500).Subtract(BDT(200)) }, BDT(300)},
		{"Multiply", func() Money { return BDT(100).Multiply(3) }, BDT(300)},
		{"Negate", func() Money { return BDT(100).Negate() }, BDT(-100)},
		{"Abs positive", func() Money { return BDT(100).Abs() }, BDT(100)},
		{"Abs negative", func() Money { return BDT(-100).Abs() }, BDT(100)},
		{"Bill total", func() Money {
			// base + carried due + fine
			return BDT(200).Add(BDT(500)).Add(BDT(50))
		}, BDT(750)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = BDT(100).Add(USD(100))
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		less    bool
		greater bool
		equal   bool
		covers  bool
	}{
		{"Equal", BDT(100), BDT(100), false, false, true, true},
		{"Less", BDT(50), BDT(100), true, false, false, false},
		{"Greater", BDT(200), BDT(100), false, true, false, true},
		{"Zero equal", BDT(0), Zero("bdt"), false, false, true, true},
		{"Negative less", BDT(-100), BDT(100), true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
			if got := tt.a.Covers(tt.b); got != tt.covers {
				t.Errorf("Covers: got %v, want %v", got, tt.covers)
			}
		})
	}
}

func TestMoneyPredicates(t *testing.T) {
	tests := []struct {
		name       string
		money      Money
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", BDT(0), true, false, false},
		{"Positive", BDT(100), false, true, false},
		{"Negative", BDT(-100), false, false, true},
		{"Large positive", BDT(999999999), false, true, false},
		{"Large negative", BDT(-999999999), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.money.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.money.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money    Money
		expected string
	}{
		{BDT(500), "500"},  // No decimals
		{BDT(0), "0"},      // No decimals
		{BDT(-50), "-50"},  // No decimals
		{USD(4900), "49.00"},
		{USD(1), "0.01"},
		{USD(0), "0.00"},
		{USD(-4900), "-49.00"},
		{USD(-1), "-0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	m := BDT(750)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Check JSON structure
	expected := `{"amount":750,"currency":"bdt","display":"Tk 750"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Money
		expected Money
	}{
		{"Empty", []Money{}, Zero("bdt")},
		{"Single", []Money{BDT(100)}, BDT(100)},
		{"Multiple", []Money{BDT(100), BDT(200), BDT(300)}, BDT(600)},
		{"With negatives", []Money{BDT(100), BDT(-50), BDT(200)}, BDT(250)},
		{"All zero", []Money{BDT(0), BDT(0), BDT(0)}, BDT(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sum(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("Sum: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCurrencySymbols(t *testing.T) {
	tests := []struct {
		currency string
		symbol   string
	}{
		{"bdt", "Tk "},
		{"usd", "$"},
		{"eur", "€"},
		{"unknown", "UNKNOWN "},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got := currencySymbol(tt.currency)
			if got != tt.symbol {
				t.Errorf("Symbol for %s: got %s, want %s", tt.currency, got, tt.symbol)
			}
		})
	}
}

func BenchmarkMoneyAdd(b *testing.B) {
	m1 := BDT(100)
	m2 := BDT(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Add(m2)
	}
}
