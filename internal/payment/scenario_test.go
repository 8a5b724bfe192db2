package payment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/payment"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

// memStore backs both the booking and payment repositories with maps so
// the full book-pay-confirm flow can run through the real services. The
// mutex gives each method the same atomicity the real store gets from
// its transactions and the per-property advisory lock.
type memStore struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*property.Property
	bookings   map[uuid.UUID]*booking.Booking
	payments   map[uuid.UUID]*payment.Payment
}

func newMemStore() *memStore {
	return &memStore{
		properties: make(map[uuid.UUID]*property.Property),
		bookings:   make(map[uuid.UUID]*booking.Booking),
		payments:   make(map[uuid.UUID]*payment.Payment),
	}
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	return p, nil
}

// CreateBooking re-checks conflicts under the lock before inserting, the
// contract the real store meets with its advisory-lock transaction.
func (m *memStore) CreateBooking(_ context.Context, b *booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.findConflicts(b.PropertyID, b.StartDate, b.EndDate, nil)) > 0 {
		return booking.ErrDateConflict
	}

	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *memStore) GetBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memStore) ListBookings(_ context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*booking.Booking
	for _, b := range m.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.PropertyID != nil && b.PropertyID != *filter.PropertyID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memStore) FindConflicts(_ context.Context, propertyID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.findConflicts(propertyID, start, end, exclude), nil
}

func (m *memStore) findConflicts(propertyID uuid.UUID, start, end time.Time, exclude *uuid.UUID) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range m.bookings {
		if b.PropertyID != propertyID || !b.Status.Blocks() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if booking.Overlaps(b.StartDate, b.EndDate, start, end) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out
}

func (m *memStore) CreatePayment(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	stored := *p
	m.payments[p.ID] = &stored
	return nil
}

func (m *memStore) SetIntentID(_ context.Context, id uuid.UUID, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return payment.ErrNotFound
	}
	p.IntentID = intentID
	return nil
}

func (m *memStore) GetPayment(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) GetPaymentByIntentID(_ context.Context, intentID string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
		if p.IntentID == intentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, payment.ErrNotFound
}

func (m *memStore) ListPayments(_ context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*payment.Payment
	for _, p := range m.payments {
		if filter.BookingID != nil && p.BookingID != *filter.BookingID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memStore) HasCompletedPayment(_ context.Context, bookingID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.payments {
		if p.BookingID == bookingID && p.Status == payment.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CompletePayment(_ context.Context, id uuid.UUID, receiptNumber string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	if p.Status != payment.StatusPending {
		return nil, payment.ErrNotPayable
	}

	now := time.Now()
	p.Status = payment.StatusCompleted
	p.ReceiptNumber = receiptNumber
	p.PaidAt = &now

	if b, ok := m.bookings[p.BookingID]; ok {
		b.Status = booking.StatusConfirmed
	}

	copied := *p
	return &copied, nil
}

func (m *memStore) FailPayment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return payment.ErrNotFound
	}
	if p.Status != payment.StatusPending {
		return payment.ErrNotPayable
	}
	p.Status = payment.StatusFailed

	if b, ok := m.bookings[p.BookingID]; ok {
		b.Status = booking.StatusCancelled
	}
	return nil
}

func (m *memStore) RefundPayment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return payment.ErrNotFound
	}
	if p.Status != payment.StatusCompleted {
		return payment.ErrNotRefundable
	}
	p.Status = payment.StatusRefunded

	if b, ok := m.bookings[p.BookingID]; ok {
		b.Status = booking.StatusCancelled
	}
	return nil
}

// TestBookAndPayFlow walks the whole tenant journey: book a unit, open a
// cash payment, confirm it, watch the booking confirm, and see the dates
// stay blocked until an admin refund frees them.
func TestBookAndPayFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	ownerID := uuid.New()
	prop := &property.Property{
		ID:           uuid.New(),
		OwnerID:      &ownerID,
		Name:         "Seaview Suites 804",
		MonthlyPrice: 15_000_00,
		IsAvailable:  true,
		Status:       property.StatusApproved,
	}
	store.properties[prop.ID] = prop

	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}

	bookingSvc := booking.NewService(store, store, nil)
	paymentSvc := payment.NewService(store, store, store, payment.NewOfflineGateway(), nil)

	march := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	b, err := bookingSvc.Create(ctx, tenant, booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  march(1),
		EndDate:    march(31),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15_000_00), b.TotalAmount)
	assert.Equal(t, booking.StatusPending, b.Status)

	intent, err := paymentSvc.CreateIntent(ctx, tenant, b.ID, payment.MethodCash)
	require.NoError(t, err)
	assert.Equal(t, "cash_payment", intent.ClientSecret)

	paid, err := paymentSvc.Confirm(ctx, tenant, intent.IntentID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	confirmed, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status)

	// Overlapping attempt while the first booking still blocks the dates.
	_, err = bookingSvc.Create(ctx, tenant, booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  march(15),
		EndDate:    time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, booking.ErrDateConflict)

	refunded, err := paymentSvc.Refund(ctx, admin, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusRefunded, refunded.Status)

	cancelled, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)

	// The refund cancelled the original booking, so the dates are free.
	retry, err := bookingSvc.Create(ctx, tenant, booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  march(15),
		EndDate:    time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, retry.Status)
}

// TestRejectedPaymentFreesDates covers the reviewer reject path: failing
// the payment must cancel the booking so its dates stop blocking.
func TestRejectedPaymentFreesDates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	ownerID := uuid.New()
	prop := &property.Property{
		ID:           uuid.New(),
		OwnerID:      &ownerID,
		Name:         "Seaview Suites 804",
		MonthlyPrice: 15_000_00,
		IsAvailable:  true,
		Status:       property.StatusApproved,
	}
	store.properties[prop.ID] = prop

	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}
	landlord := &user.User{ID: ownerID, Role: user.RoleOwner}

	bookingSvc := booking.NewService(store, store, nil)
	paymentSvc := payment.NewService(store, store, store, payment.NewOfflineGateway(), nil)

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	b, err := bookingSvc.Create(ctx, tenant, booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)

	intent, err := paymentSvc.CreateIntent(ctx, tenant, b.ID, payment.MethodCash)
	require.NoError(t, err)

	rejected, err := paymentSvc.Review(ctx, landlord, intent.PaymentID, false)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, rejected.Status)

	cancelled, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)

	retry, err := bookingSvc.Create(ctx, tenant, booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, retry.Status)
}

// TestConcurrentBookingCreates races N creates for the same dates. The
// store re-checks conflicts under its lock before inserting, so exactly
// one may win regardless of how the read-only pre-checks interleave.
func TestConcurrentBookingCreates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	prop := &property.Property{
		ID:           uuid.New(),
		Name:         "Seaview Suites 804",
		MonthlyPrice: 15_000_00,
		IsAvailable:  true,
		Status:       property.StatusApproved,
	}
	store.properties[prop.ID] = prop

	bookingSvc := booking.NewService(store, store, nil)

	params := booking.CreateParams{
		PropertyID: prop.ID,
		StartDate:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	const attempts = 16

	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	wg.Add(attempts)

	for range attempts {
		go func() {
			defer wg.Done()

			tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}
			_, err := bookingSvc.Create(ctx, tenant, params)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var created, conflicted int

	for err := range errs {
		if err == nil {
			created++
			continue
		}

		require.ErrorIs(t, err, booking.ErrDateConflict)
		conflicted++
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicted)
}
