// README: Guest profile model (immutable per session).
package guest

import (
	"time"

	"concierge/internal/types"
)

// Companion is one member of the guest's travel group.
type Companion struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Role   string `json:"role"`
}

// Profile is the read-only guest record bound to a conversation session.
type Profile struct {
	ID           types.ID    `json:"guest_id"`
	LastName     string      `json:"last_name"`
	Age          int         `json:"primary_age"`
	Gender       string      `json:"primary_gender"`
	RoomNumber   string      `json:"room_number"`
	DurationStay int         `json:"duration_stay"`
	GroupType    string      `json:"group_type"`
	Companions   []Companion `json:"family_members"`
	CheckIn      time.Time   `json:"check_in"`
	CheckOut     time.Time   `json:"check_out"`
}
