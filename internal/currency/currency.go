// Package currency maps display currency codes to symbols. Display
// only: codes are never validated against this table and never
// participate in receipt hashing.
package currency

var symbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CAD": "C$",
	"AUD": "A$", "CHF": "CHF", "CNY": "¥", "INR": "₹", "KRW": "₩",
	"SGD": "S$", "HKD": "HK$", "NOK": "kr", "SEK": "kr", "DKK": "kr",
	"PLN": "zł", "CZK": "Kč", "HUF": "Ft", "RUB": "₽", "BRL": "R$",
	"MXN": "$", "ZAR": "R", "TRY": "₺", "NZD": "NZ$", "THB": "฿",
	"MYR": "RM", "IDR": "Rp", "PHP": "₱", "VND": "₫", "AED": "د.إ",
	"SAR": "﷼", "QAR": "﷼", "KWD": "د.ك", "BHD": ".د.ب", "OMR": "﷼",
	"JOD": "د.ا", "LBP": "£", "EGP": "£", "ILS": "₪", "PKR": "₨",
	"BDT": "৳", "LKR": "₨", "NPR": "₨", "NGN": "₦", "KES": "KSh",
	"GHS": "₵", "ETB": "Br",
}

// Symbol returns the display symbol for a currency code, defaulting to
// "$" for unknown codes.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return "$"
}

// Known reports whether code is in the display table.
func Known(code string) bool {
	_, ok := symbols[code]
	return ok
}
