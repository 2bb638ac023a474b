package chargeversion

var daysBeforeMonth = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

const (
	// day offsets counted from 1 April
	summerEndOffset = 213 // 31 October
	yearLength      = 365
	aprilFirstDay   = 91
)

// offsetFromApril returns the number of days from 1 April to the given day
// of a non-leap year. 29 February is treated as 28 February.
func offsetFromApril(day, month int) int {
	if month == 2 && day == 29 {
		day = 28
	}
	dayOfYear := daysBeforeMonth[month] + day
	return (dayOfYear - aprilFirstDay + yearLength) % yearLength
}

// IsValid reports whether every day and month is in range
func (p AbstractionPeriod) IsValid() bool {
	valid := func(day, month int) bool {
		if month < 1 || month > 12 || day < 1 {
			return false
		}
		daysInMonth := 31
		if month < 12 {
			daysInMonth = daysBeforeMonth[month+1] - daysBeforeMonth[month]
		}
		return day <= daysInMonth || (month == 2 && day == 29)
	}
	return valid(p.StartDay, p.StartMonth) && valid(p.EndDay, p.EndMonth)
}

// Season returns summer when the period falls inside 1 April to 31 October,
// winter when it falls inside 1 November to 31 March, otherwise all year.
func (p AbstractionPeriod) Season() string {
	if !p.IsValid() {
		return SeasonAllYear
	}
	start := offsetFromApril(p.StartDay, p.StartMonth)
	end := offsetFromApril(p.EndDay, p.EndMonth)
	if start > end {
		return SeasonAllYear
	}
	if end <= summerEndOffset {
		return SeasonSummer
	}
	if start > summerEndOffset {
		return SeasonWinter
	}
	return SeasonAllYear
}
