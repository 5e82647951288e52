package widget

import (
	"math"
	"strconv"
)

func formatValue(v float64, round bool) string {
	if round {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
