// Package currency holds the supported-currency registry and the pure
// conversion and formatting helpers. All backend prices are expressed in the
// base currency; conversion only ever goes from base to a display currency.
package currency

import "sort"

// BaseCurrency is the currency backend prices are expressed in.
const BaseCurrency = "MMK"

// Info is the display metadata for one supported currency.
type Info struct {
	Code          string `json:"code"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Flag          string `json:"flag"`
	DecimalPlaces int    `json:"decimalPlaces"`
}

var registry = map[string]Info{
	"MMK": {Code: "MMK", Symbol: "K", Name: "Myanmar Kyat", Flag: "🇲🇲", DecimalPlaces: 0},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Flag: "🇺🇸", DecimalPlaces: 2},
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai Baht", Flag: "🇹🇭", DecimalPlaces: 2},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Flag: "🇨🇳", DecimalPlaces: 2},
}

// Lookup returns the registry entry for code.
func Lookup(code string) (Info, bool) {
	info, ok := registry[code]
	return info, ok
}

// Supported reports whether code is a supported display currency.
func Supported(code string) bool {
	_, ok := registry[code]
	return ok
}

// All returns every supported currency sorted by code.
func All() []Info {
	out := make([]Info, 0, len(registry))
	for _, info := range registry {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
