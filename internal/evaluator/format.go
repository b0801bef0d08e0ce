package evaluator

import (
	"math"
	"strconv"
)

// FormatNumber renders a number in its shortest decimal form without an
// exponent: 2, 2.5, 1000000000000000000000. Infinities print as inf and -inf.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
