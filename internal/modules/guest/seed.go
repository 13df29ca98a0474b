// README: Demo guest pool; arrival offsets keep stays straddling today.
package guest

import (
	"time"

	"concierge/internal/types"
)

// SeedPool returns the ten demo guests. Check-in is 14:00 on today plus the
// guest's arrival offset, check-out 11:00 after the stay duration, so some
// guests are always mid-stay.
func SeedPool(now time.Time) []Profile {
	base := time.Date(now.Year(), now.Month(), now.Day(), 14, 0, 0, 0, now.Location())

	type row struct {
		id, lastName  string
		age           int
		gender        string
		room          string
		duration      int
		groupType     string
		companions    []Companion
		arrivalOffset int
	}
	rows := []row{
		{"G-101", "Smith", 29, "Male", "305", 2, "Individual", nil, 0},
		{"G-102", "Johnson", 34, "Female", "402", 5, "Family", []Companion{
			{Age: 8, Gender: "Female", Role: "Child"},
			{Age: 36, Gender: "Male", Role: "Spouse"},
		}, -1},
		{"G-103", "Williams", 22, "Male", "101", 1, "Individual", nil, 0},
		{"G-104", "Brown", 60, "Male", "500", 7, "Couple", []Companion{
			{Age: 58, Gender: "Female", Role: "Spouse"},
		}, -2},
		{"G-105", "Jones", 45, "Female", "205", 3, "Family", []Companion{
			{Age: 15, Gender: "Male", Role: "Teen"},
			{Age: 17, Gender: "Female", Role: "Teen"},
		}, -1},
		{"G-106", "Garcia", 72, "Female", "105", 10, "Couple", []Companion{
			{Age: 75, Gender: "Male", Role: "Spouse"},
		}, -3},
		{"G-107", "Miller", 31, "Male", "601", 4, "Couple", []Companion{
			{Age: 29, Gender: "Female", Role: "Spouse"},
		}, 0},
		{"G-108", "Davis", 26, "Female", "303", 2, "Friends", []Companion{
			{Age: 27, Gender: "Female", Role: "Friend"},
		}, 0},
		{"G-109", "Rodriguez", 40, "Male", "404", 6, "Family", []Companion{
			{Age: 10, Gender: "Male", Role: "Child"},
			{Age: 12, Gender: "Female", Role: "Child"},
		}, 1},
		{"G-110", "Martinez", 50, "Female", "505", 3, "Individual", nil, -1},
	}

	out := make([]Profile, 0, len(rows))
	for _, r := range rows {
		checkIn := base.AddDate(0, 0, r.arrivalOffset)
		checkOut := checkIn.AddDate(0, 0, r.duration)
		checkOut = time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 11, 0, 0, 0, checkOut.Location())
		out = append(out, Profile{
			ID:           types.ID(r.id),
			LastName:     r.lastName,
			Age:          r.age,
			Gender:       r.gender,
			RoomNumber:   r.room,
			DurationStay: r.duration,
			GroupType:    r.groupType,
			Companions:   r.companions,
			CheckIn:      checkIn,
			CheckOut:     checkOut,
		})
	}
	return out
}
