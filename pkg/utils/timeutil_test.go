package utils

import (
	"testing"
	"time"
)

func TestSeason(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "winter"},
		{time.April, "summer"},
		{time.July, "monsoon"},
		{time.October, "post-monsoon"},
		{time.November, "post-monsoon"},
		{time.December, "winter"},
	}
	for _, tc := range tests {
		if got := Season(tc.month); got != tc.want {
			t.Errorf("Season(%s): got %q, want %q", tc.month, got, tc.want)
		}
	}
}

func TestIsRushHour(t *testing.T) {
	rush := []int{7, 8, 10, 17, 19, 20}
	for _, h := range rush {
		if !IsRushHour(h) {
			t.Errorf("IsRushHour(%d) should be true", h)
		}
	}
	quiet := []int{0, 3, 6, 11, 14, 16, 21, 23}
	for _, h := range quiet {
		if IsRushHour(h) {
			t.Errorf("IsRushHour(%d) should be false", h)
		}
	}
}

func TestFormatHourRange(t *testing.T) {
	if got := FormatHourRange(18, 21); got != "18:00–21:00" {
		t.Errorf("FormatHourRange: got %q", got)
	}
	if got := FormatHourRange(6, 7); got != "06:00–07:00" {
		t.Errorf("FormatHourRange: got %q", got)
	}
}

func TestToIST(t *testing.T) {
	utc := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	ist := ToIST(utc)
	if ist.Hour() != 17 || ist.Minute() != 30 {
		t.Errorf("ToIST: got %02d:%02d, want 17:30", ist.Hour(), ist.Minute())
	}
}
