package render

import "fmt"

// FormatAmount renders a token amount in the compact form used across alert
// texts and the image card: millions as "12.34M", thousands as "56.78K",
// anything smaller with two decimals.
func FormatAmount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.2fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.2fK", v/1_000)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
