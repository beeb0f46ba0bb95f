package currency

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestConvertPriceBaseCurrencyIdentity(t *testing.T) {
	rates := map[string]decimal.Decimal{"MMK": dec("1")}
	got := ConvertPrice(dec("100"), "MMK", rates, nil)
	if !got.Equal(dec("100")) {
		t.Fatalf("expected 100, got %s", got)
	}
}

func TestConvertPriceDividesByRate(t *testing.T) {
	rates := map[string]decimal.Decimal{"USD": dec("2100")}
	got := ConvertPrice(dec("2100"), "USD", rates, nil)
	if !got.Equal(dec("1")) {
		t.Fatalf("expected 1.00, got %s", got)
	}
}

func TestConvertPriceRoundsToTwoPlaces(t *testing.T) {
	rates := map[string]decimal.Decimal{"THB": dec("60")}
	got := ConvertPrice(dec("100"), "THB", rates, nil)
	if !got.Equal(dec("1.67")) {
		t.Fatalf("expected 1.67, got %s", got)
	}
}

func TestConvertPriceMissingRateReturnsOriginal(t *testing.T) {
	got := ConvertPrice(dec("5000"), "USD", map[string]decimal.Decimal{}, nil)
	if !got.Equal(dec("5000")) {
		t.Fatalf("expected original amount, got %s", got)
	}
}

func TestConvertPriceNonPositiveRateReturnsOriginal(t *testing.T) {
	rates := map[string]decimal.Decimal{"USD": dec("0"), "THB": dec("-3")}
	if got := ConvertPrice(dec("500"), "USD", rates, nil); !got.Equal(dec("500")) {
		t.Fatalf("zero rate: expected original amount, got %s", got)
	}
	if got := ConvertPrice(dec("500"), "THB", rates, nil); !got.Equal(dec("500")) {
		t.Fatalf("negative rate: expected original amount, got %s", got)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"12500", "MMK", "K12,500"},
		{"1234.5", "USD", "$1,234.50"},
		{"1000000", "MMK", "K1,000,000"},
		{"42", "XXX", "42.00"},
	}
	for _, tc := range cases {
		if got := FormatPrice(dec(tc.amount), tc.code); got != tc.want {
			t.Fatalf("FormatPrice(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestAreRatesRecent(t *testing.T) {
	if AreRatesRecent(time.Time{}, 45*time.Minute) {
		t.Fatal("zero lastUpdated must be stale")
	}
	if !AreRatesRecent(time.Now().Add(-44*time.Minute), 45*time.Minute) {
		t.Fatal("44 minutes old must be recent at 45 minute max age")
	}
	if AreRatesRecent(time.Now().Add(-46*time.Minute), 45*time.Minute) {
		t.Fatal("46 minutes old must be stale at 45 minute max age")
	}
}

func TestRegistryBaseCurrency(t *testing.T) {
	info, ok := Lookup(BaseCurrency)
	if !ok {
		t.Fatal("base currency missing from registry")
	}
	if info.DecimalPlaces != 0 {
		t.Fatalf("MMK should have 0 decimal places, got %d", info.DecimalPlaces)
	}
	if !Supported("USD") || Supported("EUR") {
		t.Fatal("unexpected supported set")
	}
}
