package format

import (
	"fmt"
	"strconv"
)

// Duration formats a number of seconds as "H hr M min", dropping the hour
// part when it is zero.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// Distance formats meters as "N m" below one kilometer and "X.X km" otherwise.
func Distance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

// Fixed2 renders a value with exactly two decimals.
func Fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Number renders a value with the shortest decimal representation,
// so 2.50 prints as "2.5" and 3.00 as "3".
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
