package domain

import "fmt"

// FormatCents renders an integer cent amount as a fixed two-decimal string,
// e.g. 2500 -> "25.00", -50 -> "-0.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
