package report

// DashboardStats is the admin overview: portfolio size, booking load and
// revenue. Money figures are in centavos and count completed payments
// only.
type DashboardStats struct {
	TotalProperties    int
	ApprovedProperties int
	TotalUsers         int
	ActiveTenants      int
	TotalBookings      int
	PendingBookings    int
	ConfirmedBookings  int
	BookingsThisMonth  int
	TotalRevenue       int64
	RevenueThisMonth   int64
}
