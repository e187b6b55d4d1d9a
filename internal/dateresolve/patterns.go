package dateresolve

import (
	"regexp"
	"time"
)

// patternMatcher recognizes one embedded-date shape in a filename. Matchers
// are pure: new shapes are added by extending the ordered list, not by
// branching inside the resolver.
type patternMatcher struct {
	name string
	re   *regexp.Regexp
}

var (
	// Delimited 8-digit run splitting as year-month-day, e.g. IMG_20230501_101500.jpg.
	reCompact = regexp.MustCompile(`(?:^|[^0-9])(\d{4})(\d{2})(\d{2})(?:[^0-9]|$)`)
	// Dashed form, e.g. photo_2023-05-01.jpg.
	reDashed = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	// Underscored form, e.g. scan_2023_05_01.png.
	reUnderscored = regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`)
	// Any contiguous 8-digit run, even inside a longer digit sequence.
	reDigitRun = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)
)

func filenameMatchers() []patternMatcher {
	return []patternMatcher{
		{name: "yyyymmdd", re: reCompact},
		{name: "yyyy-mm-dd", re: reDashed},
		{name: "yyyy_mm_dd", re: reUnderscored},
		{name: "digits8", re: reDigitRun},
	}
}

// match scans the subject left to right and returns the first occurrence
// that forms a plausible calendar date: a real day in a year between
// minYear and next year.
func (m patternMatcher) match(subject string, minYear int) (time.Time, bool) {
	for _, groups := range m.re.FindAllStringSubmatch(subject, -1) {
		year := atoi4(groups[1])
		month := atoi2(groups[2])
		day := atoi2(groups[3])
		if date, ok := plausibleDate(year, month, day, minYear); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func plausibleDate(year, month, day, minYear int) (time.Time, bool) {
	if year < minYear || year > time.Now().Year()+1 {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 1/2); reject those.
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func atoi4(s string) int {
	return atoi2(s[:2])*100 + atoi2(s[2:])
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
