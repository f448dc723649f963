package data

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout string = time.DateOnly

func ParseDob(dob string) (time.Time, error) {
	dob = strings.TrimSpace(dob)
	t, err := time.Parse(DateLayout, dob)
	if err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, dob); err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// Age returns the number of whole years between dob and now; a year only
// counts once the birthday (month/day) has been reached. ok is false when
// dob is empty or not a date.
func Age(dob string, now time.Time) (age int, ok bool) {
	if dob == "" {
		return 0, false
	}
	birthDate, err := ParseDob(dob)
	if err != nil {
		return 0, false
	}
	age = now.Year() - birthDate.Year()
	monthDiff := now.Month() - birthDate.Month()
	if monthDiff < 0 || (monthDiff == 0 && now.Day() < birthDate.Day()) {
		age--
	}
	return age, true
}

// AgeString is the display form of the derived age: empty when it cannot
// be computed.
func (e *Employee) AgeString(now time.Time) string {
	age, ok := Age(e.Dob, now)
	if !ok {
		return ""
	}
	return strconv.Itoa(age)
}
