package units

import "fmt"

const (
	KB = 1000
	MB = 1000 * KB
	GB = 1000 * MB
	TB = 1000 * GB
)

var decimalAbbrs = []string{"B", "kB", "MB", "GB", "TB", "PB"}

func getSizeAndUnit(size float64, base float64, abbrs []string) (float64, string) {
	i := 0
	limit := len(abbrs) - 1
	for size >= base && i < limit {
		size = size / base
		i++
	}
	return size, abbrs[i]
}

func HumanSize(size float64) string {
	return HumanSizeWithPrecision(size, 3)
}

func HumanSizeWithPrecision(size float64, precision int) string {
	size, unit := getSizeAndUnit(size, 1000.0, decimalAbbrs)
	return fmt.Sprintf("%.*g%s", precision, size, unit)
}
