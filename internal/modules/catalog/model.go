// README: Activity catalog entry and the stay-window schedule filter.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadSchedule marks a catalog row whose date or start time cannot be
// parsed. Callers surface it as an assistant text reply, never a crash.
var ErrBadSchedule = errors.New("unparseable schedule entry")

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Entry is one scheduled occurrence of an activity.
type Entry struct {
	Date         string `json:"Date"`
	DayName      string `json:"Day_Name"`
	Name         string `json:"Activity_Name"`
	Type         string `json:"Type"`
	StartTime    string `json:"Start_Time"`
	Tags         string `json:"Tags"`
	Price        string `json:"Price"`
	MinAge       int    `json:"Min_Age"`
	TargetGender string `json:"Target_Gender"`
}

// StartAt combines Date and StartTime into a single timestamp.
func (e Entry) StartAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, e.Date+" "+e.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrBadSchedule, e.Date, e.StartTime)
	}
	return t, nil
}

// FilterByStay returns the entries whose start timestamp falls inside
// [checkIn, checkOut], both bounds inclusive. Order follows the input.
func FilterByStay(entries []Entry, checkIn, checkOut time.Time) ([]Entry, error) {
	loc := checkIn.Location()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		at, err := e.StartAt(loc)
		if err != nil {
			return nil, err
		}
		if at.Before(checkIn) || at.After(checkOut) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
