// README: Weekly recurrence templates expanded into a rolling day window.
package catalog

import "time"

// Template describes one recurring activity. Weekdays uses time.Weekday
// (Sunday = 0).
type Template struct {
	Name         string
	Type         string
	Tags         string
	StartTime    string
	MinAge       int
	TargetGender string
	Weekdays     []time.Weekday
	Price        string
}

// TemplatePool is the fixed activity menu the schedule is generated from.
func TemplatePool() []Template {
	return []Template{
		{Name: "Sunrise Yoga", Type: "Activity", Tags: "Wellness", StartTime: "07:00", MinAge: 16,
			Weekdays: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
			Price:    "50 AED"},
		{Name: "Aqua Aerobics", Type: "Activity", Tags: "Wellness, Pool", StartTime: "09:00", MinAge: 12,
			Weekdays: []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}, Price: "Free"},
		{Name: "Happy Hour Mixer", Type: "Event", Tags: "Social, Alcohol", StartTime: "17:00", MinAge: 18,
			Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, Price: "Pay as you go"},
		{Name: "Rooftop DJ Party", Type: "Event", Tags: "Nightlife, Music", StartTime: "21:00", MinAge: 18,
			Weekdays: []time.Weekday{time.Friday, time.Saturday}, Price: "100 AED (Entry)"},
		{Name: "Sunday Grand Brunch", Type: "Event", Tags: "Food, Family", StartTime: "11:00", MinAge: 0,
			Weekdays: []time.Weekday{time.Sunday}, Price: "250 AED"},
		{Name: "Kids Treasure Hunt", Type: "Activity", Tags: "Family, Kids", StartTime: "10:00", MinAge: 4,
			Weekdays: []time.Weekday{time.Saturday, time.Sunday}, Price: "Free"},
		{Name: "Cooking Masterclass", Type: "Activity", Tags: "Food, Culture", StartTime: "14:00", MinAge: 12,
			Weekdays: []time.Weekday{time.Wednesday}, Price: "150 AED"},
		{Name: "Whiskey Tasting", Type: "Event", Tags: "Luxury, Alcohol", StartTime: "20:00", MinAge: 21,
			Weekdays: []time.Weekday{time.Friday}, Price: "300 AED"},
		{Name: "Local History Tour", Type: "Activity", Tags: "Sightseeing", StartTime: "09:00", MinAge: 10,
			Weekdays: []time.Weekday{time.Tuesday, time.Thursday}, Price: "80 AED"},
		{Name: "Scuba Diving Basics", Type: "Package", Tags: "Adventure", StartTime: "08:00", MinAge: 15,
			Weekdays: []time.Weekday{time.Saturday}, Price: "400 AED"},
		{Name: "Cinema Under Stars", Type: "Event", Tags: "Relax, Family", StartTime: "20:00", MinAge: 0,
			Weekdays: []time.Weekday{time.Monday, time.Thursday}, Price: "Free"},
		{Name: "Ladies Spa Afternoon", Type: "Service", Tags: "Wellness, Spa", StartTime: "13:00", MinAge: 18,
			TargetGender: "Female", Weekdays: []time.Weekday{time.Tuesday}, Price: "200 AED"},
	}
}

// Expand rolls the template pool over `days` calendar days starting at
// `start`, producing entries in day order (hence chronological).
func Expand(templates []Template, start time.Time, days int) []Entry {
	var out []Entry
	for offset := 0; offset < days; offset++ {
		day := start.AddDate(0, 0, offset)
		for _, t := range templates {
			if !onWeekday(t.Weekdays, day.Weekday()) {
				continue
			}
			gender := t.TargetGender
			if gender == "" {
				gender = "Any"
			}
			out = append(out, Entry{
				Date:         day.Format(dateLayout),
				DayName:      day.Weekday().String(),
				Name:         t.Name,
				Type:         t.Type,
				StartTime:    t.StartTime,
				Tags:         t.Tags,
				Price:        t.Price,
				MinAge:       t.MinAge,
				TargetGender: gender,
			})
		}
	}
	return out
}

func onWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, w := range days {
		if w == d {
			return true
		}
	}
	return false
}
