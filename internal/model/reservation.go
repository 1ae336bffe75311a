package model

// StatusOccupied is the only status a stored reservation ever carries.
// Cancelling a reservation deletes it rather than transitioning it.
const StatusOccupied = "occupied"

// Reservation claims one (date, time) slot of the meeting room for the
// current week.  Staff-placed closures are stored as reservations with
// IsAdministrativeBlock set and the requester identity replaced by the
// staff sentinel values.
//
// Fields:
//
//	ID                    – random UUID assigned on creation, never changed.
//	RequesterName         – free-text name of the requester.
//	RequesterEmail        – free-text contact email of the requester.
//	Date                  – calendar date, YYYY-MM-DD.
//	Time                  – hour label, HH:00.
//	PurposeMessage        – why the room is needed.
//	IsAdministrativeBlock – true for staff-placed closures.
//	Status                – always StatusOccupied.
//
// The JSON names match the layout of persisted snapshots.
type Reservation struct {
	ID                    string `json:"id"`
	RequesterName         string `json:"name"`
	RequesterEmail        string `json:"email"`
	Date                  string `json:"date"`
	Time                  string `json:"time"`
	PurposeMessage        string `json:"roomMessage"`
	IsAdministrativeBlock bool   `json:"isStaffBlock"`
	Status                string `json:"status"`
}

// Slot returns the (date, time) address the reservation occupies.
func (r Reservation) Slot() Slot {
	return Slot{Date: r.Date, Time: r.Time}
}

// Slot is a (date, time) address in the weekly grid and the unit of
// contention between reservations.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (s Slot) String() string { return s.Date + " " + s.Time }
