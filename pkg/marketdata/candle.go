package marketdata

import (
	"strconv"
	"time"
)

// ParseCandleRows converts raw candle rows from the provider REST API to
// []Candle. Invalid rows are skipped rather than failing the batch.
func ParseCandleRows(raw [][]string) []Candle {
	var out []Candle

	for _, row := range raw {
		if len(row) < 6 {
			continue // skip incomplete row
		}

		start, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			continue
		}
		open, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		high, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		low, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			continue
		}
		closeVal, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue
		}
		volume, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			continue
		}

		out = append(out, Candle{
			Start:  start,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeVal,
			Volume: volume,
		})
	}
	return out
}
