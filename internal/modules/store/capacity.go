package store

// EffectiveCapacity returns the capacity that applies to a date: the override
// row's ceiling when one exists, otherwise the store default.
func EffectiveCapacity(s *Store, day *DayCapacity) int {
	if day != nil && day.MaxCapacity > 0 {
		return day.MaxCapacity
	}
	return s.MaxDailyCapacity
}

// AvailableCapacity returns the remaining bookable slots of a store on a
// date. The result can be negative only when bookings were force-added past
// the ceiling.
func AvailableCapacity(s *Store, day *DayCapacity) int {
	used := 0
	if day != nil {
		used = day.UsedCapacity
	}
	return EffectiveCapacity(s, day) - used
}

// AdjustCapacity applies a booking delta to the day row. When no row exists
// yet one is created from the store default with max(0, delta) bookings; an
// existing row has its counter moved by delta, floored at zero.
func AdjustCapacity(s *Store, day *DayCapacity, date string, delta int) *DayCapacity {
	if day == nil {
		used := delta
		if used < 0 {
			used = 0
		}
		return &DayCapacity{
			StoreID:      s.ID,
			Date:         date,
			MaxCapacity:  s.MaxDailyCapacity,
			UsedCapacity: used,
		}
	}
	day.UsedCapacity += delta
	if day.UsedCapacity < 0 {
		day.UsedCapacity = 0
	}
	return day
}
