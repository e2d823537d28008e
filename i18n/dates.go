package i18n

import (
	"fmt"
	"time"
)

// DateStyle selects one of the date renderings used in documents.
type DateStyle int

const (
	Day         DateStyle = iota // 19/10/2026
	DayHour                      // 19/10/2026 14:05
	DayText                      // 19 octobre 2026
	DayHourText                  // 19 octobre 2026 14:05
)

// MonthName returns the localized month name.
func MonthName(lang string, m time.Month) string {
	names, ok := monthNames[Normalize(lang)]
	if !ok || m < time.January || m > time.December {
		return m.String()
	}
	return names[m-1]
}

// FormatDate renders t in lang with the given style. French uses
// day/month order, English month/day.
func FormatDate(lang string, t time.Time, style DateStyle) string {
	lang = Normalize(lang)
	switch style {
	case DayHour:
		return FormatDate(lang, t, Day) + t.Format(" 15:04")
	case DayText:
		if lang == "en" {
			return fmt.Sprintf("%s %d, %d", MonthName(lang, t.Month()), t.Day(), t.Year())
		}
		return fmt.Sprintf("%d %s %d", t.Day(), MonthName(lang, t.Month()), t.Year())
	case DayHourText:
		return FormatDate(lang, t, DayText) + t.Format(" 15:04")
	default:
		if lang == "en" {
			return t.Format("01/02/2006")
		}
		return t.Format("02/01/2006")
	}
}
