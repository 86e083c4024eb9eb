package utils

import (
	"fmt"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). All hour-of-day
// logic in the engine (rush hours, peak windows) is evaluated in IST.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// ToIST converts a time.Time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// Season names the meteorological season for a month, northern-India
// calendar: winter brings inversions and crop-residue burning, monsoon
// washes out particulates.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "summer"
	case time.June, time.July, time.August, time.September:
		return "monsoon"
	default:
		return "post-monsoon"
	}
}

// IsRushHour reports whether an hour of day (0–23) falls in the morning
// (07:00–10:59) or evening (17:00–20:59) traffic window.
func IsRushHour(hour int) bool {
	return (hour >= 7 && hour <= 10) || (hour >= 17 && hour <= 20)
}

// FormatHourRange renders an hour-of-day window as "18:00–21:00".
func FormatHourRange(start, end int) string {
	return fmt.Sprintf("%02d:00–%02d:00", start, end)
}

// FormatDateTimeIST formats a time.Time to "2006-01-02 15:04:05 IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05 IST")
}
