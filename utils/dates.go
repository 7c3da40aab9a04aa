// utils/dates.go
package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// Date is a calendar date column. It is stored like datatypes.Date and travels
// over JSON as YYYY-MM-DD, the same form the API accepts.
type Date datatypes.Date

func (d *Date) Scan(value interface{}) error {
	return (*datatypes.Date)(d).Scan(value)
}

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (Date) GormDataType() string {
	return "date"
}

func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CalendarDate keeps only the year, month and day of t, pinned to UTC midnight so
// stored dates compare equal regardless of the caller's zone.
func CalendarDate(t time.Time) Date {
	year, month, day := t.Date()
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return CalendarDate(t), nil
}

// Today is the current calendar date as seen in loc.
func Today(now time.Time, loc *time.Location) Date {
	return CalendarDate(now.In(loc))
}

func FormatDate(d Date) string {
	return d.String()
}
