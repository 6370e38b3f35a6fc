package dates

import "time"

const (
	// month_day_year-hour-minute-second
	BatchLabelFormat = "01_02_2006-15-04-05"
)

// BatchLabel identifies one extraction run, e.g. AVGO_tweets_02_25_2024-00-00-03.
func BatchLabel(prefix string, at time.Time) string {
	return prefix + DateToString(at, BatchLabelFormat)
}

func DateToString(from time.Time, dateFormat string) string {
	return from.Format(dateFormat)
}
