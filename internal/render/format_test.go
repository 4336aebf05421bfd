package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.994, "999.99"},
		{1_000, "1.00K"},
		{56_780, "56.78K"},
		{999_999, "1000.00K"},
		{1_000_000, "1.00M"},
		{12_340_000, "12.34M"},
		{2_500_000_000, "2500.00M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "input %v", tt.in)
	}
}
