package domain

import "math"

// RoomLoad is one room's capacity and its active booking count.
type RoomLoad struct {
	Capacity int
	Active   int
}

// Occupied caps the active count at capacity so an over-full legacy row never
// pushes the rate past 100.
func (l RoomLoad) Occupied() int {
	if l.Active > l.Capacity {
		return l.Capacity
	}
	if l.Active < 0 {
		return 0
	}
	return l.Active
}

// OccupancyRate is round(100 * occupied / capacity); 0 when capacity is 0.
func OccupancyRate(occupied, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(occupied) / float64(capacity)))
}

// Totals sums capacity and occupied beds across rooms.
func Totals(loads []RoomLoad) (capacity, occupied int) {
	for _, l := range loads {
		capacity += l.Capacity
		occupied += l.Occupied()
	}
	return capacity, occupied
}

// CurrentlyOutside is check-ins minus check-outs, floored at zero.
func CurrentlyOutside(checkedIn, checkedOut int) int {
	if n := checkedIn - checkedOut; n > 0 {
		return n
	}
	return 0
}
