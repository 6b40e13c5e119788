package enrich

import "math"

// Density returns people per square mile rounded to two decimals. A zero
// area yields zero rather than dividing by it.
func Density(population int, areaSqMi float64) float64 {
	if areaSqMi == 0 {
		return 0
	}
	return math.Round(float64(population)/areaSqMi*100) / 100
}
