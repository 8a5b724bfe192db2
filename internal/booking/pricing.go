package booking

import "time"

const daysPerBillingMonth = 30

// TotalAmount prices a stay at the property's monthly rate. Duration is
// counted in whole days (fractional time-of-day truncated) and billed in
// flat 30-day buckets, rounded up: a 31-day stay is two months. A
// non-positive day count should have been rejected by date validation
// upstream, but pricing floors it at one month so an amount can never be
// zero or negative.
func TotalAmount(monthlyPrice int64, start, end time.Time) int64 {
	days := int64(end.Sub(start) / (24 * time.Hour))

	months := int64(1)
	if days > 0 {
		months = (days + daysPerBillingMonth - 1) / daysPerBillingMonth
	}

	return monthlyPrice * months
}
