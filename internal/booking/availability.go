package booking

import "time"

// Overlaps reports whether a stored booking [s, e) conflicts with a
// candidate range [start, end). A booking conflicts when it covers the
// candidate's start, covers its end, or sits fully inside it:
//
//	s <= start && e > start
//	s <  end   && e >= end
//	s >= start && e <= end
//
// Ranges are half-open, so a booking that ends exactly when the
// candidate starts, or starts exactly when it ends, does not block it
// (same-day handover). The store's conflict query mirrors these clauses
// verbatim; change one and the other must follow.
func Overlaps(s, e, start, end time.Time) bool {
	if !s.After(start) && e.After(start) {
		return true
	}

	if s.Before(end) && !e.Before(end) {
		return true
	}

	if !s.Before(start) && !e.After(end) {
		return true
	}

	return false
}
