package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MonthDay is a day-of-month in 1..31. Upstream sources are loose about
// the form: the persistence layer and the natural-language parser may
// hand us a JSON number (4), a bare numeral ("4"), or the ordinal string
// used internally ("4th"). The codec accepts all three and always emits
// the ordinal form, so normalization happens once at deserialization.
type MonthDay int

// Valid reports whether the day is in the calendar range 1..31.
func (d MonthDay) Valid() bool {
	return d >= 1 && d <= 31
}

// Ordinal renders the day as an English ordinal: 1 → "1st", 22 → "22nd".
func (d MonthDay) Ordinal() string {
	suffix := "th"
	switch {
	case d%100 >= 11 && d%100 <= 13:
		// 11th, 12th, 13th
	case d%10 == 1:
		suffix = "st"
	case d%10 == 2:
		suffix = "nd"
	case d%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(int(d)) + suffix
}

func (d MonthDay) String() string {
	return d.Ordinal()
}

func (d MonthDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Ordinal())
}

func (d *MonthDay) UnmarshalJSON(data []byte) error {
	var asNumber int
	if err := json.Unmarshal(data, &asNumber); err == nil {
		md := MonthDay(asNumber)
		if !md.Valid() {
			return fmt.Errorf("month day out of range: %d", asNumber)
		}
		*d = md
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("month day must be a number or ordinal string, got %s", data)
	}
	md, err := ParseMonthDay(asString)
	if err != nil {
		return err
	}
	*d = md
	return nil
}

// ParseMonthDay parses a bare numeral ("4") or ordinal ("4th") form.
func ParseMonthDay(s string) (MonthDay, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if cut, ok := strings.CutSuffix(trimmed, suffix); ok {
			trimmed = cut
			break
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid month day %q", s)
	}
	md := MonthDay(n)
	if !md.Valid() {
		return 0, fmt.Errorf("month day out of range: %d", n)
	}
	return md, nil
}
