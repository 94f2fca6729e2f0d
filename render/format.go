package render

import "strconv"

func formatPx(v float64) string {
	if v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
