package autorace

// DateWindow is the half-open range [from, to) of a single monthly query.
type DateWindow struct {
	YearFrom  int
	MonthFrom int
	DayFrom   int
	YearTo    int
	MonthTo   int
	DayTo     int
}

// NewDateWindow returns the window covering the given month, december rolls
// over into january of the next year.
func NewDateWindow(year, month int) DateWindow {
	yearTo := year
	monthTo := month + 1
	if month == 12 {
		yearTo = year + 1
		monthTo = 1
	}
	return DateWindow{
		YearFrom:  year,
		MonthFrom: month,
		DayFrom:   1,
		YearTo:    yearTo,
		MonthTo:   monthTo,
		DayTo:     1,
	}
}
