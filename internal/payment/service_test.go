package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/casita/internal/booking"
	"github.com/MrJamesThe3rd/casita/internal/payment"
	"github.com/MrJamesThe3rd/casita/internal/property"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type stubGateway struct {
	createErr    error
	retrieveErr  error
	refundErr    error
	intentStatus string
	refunded     []string
}

func (g *stubGateway) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*payment.GatewayIntent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}

	return &payment.GatewayIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret_abc",
		Amount:       amount,
		Currency:     currency,
		Status:       "succeeded",
	}, nil
}

func (g *stubGateway) RetrieveIntent(_ context.Context, id string) (*payment.GatewayIntent, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}

	status := g.intentStatus
	if status == "" {
		status = "succeeded"
	}

	return &payment.GatewayIntent{ID: id, Status: status}, nil
}

func (g *stubGateway) RefundIntent(_ context.Context, id string) error {
	if g.refundErr != nil {
		return g.refundErr
	}

	g.refunded = append(g.refunded, id)

	return nil
}

func pendingBooking(id, userID uuid.UUID, amount int64) *booking.Booking {
	return &booking.Booking{
		ID:          id,
		UserID:      userID,
		PropertyID:  uuid.New(),
		TotalAmount: amount,
		Status:      booking.StatusPending,
	}
}

func TestService_CreateIntent(t *testing.T) {
	bookingID := uuid.New()
	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}
	stranger := &user.User{ID: uuid.New(), Role: user.RoleTenant}

	type testCase struct {
		name       string
		requester  *user.User
		method     payment.Method
		gateway    *stubGateway
		setupMock  func(repo *payment.MockRepository, bookings *payment.MockBookings)
		wantErr    error
		wantSecret string
	}

	tests := []testCase{
		{
			name:      "CashPayment",
			requester: tenant,
			method:    payment.MethodCash,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
				repo.EXPECT().
					HasCompletedPayment(gomock.Any(), bookingID).
					Return(false, nil)
				repo.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						p.ID = uuid.New()
						p.CreatedAt = time.Now()
						return nil
					})
				repo.EXPECT().
					SetIntentID(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantSecret: "cash_payment",
		},
		{
			name:      "CardPaymentGoesThroughGateway",
			requester: tenant,
			method:    payment.MethodCard,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
				repo.EXPECT().
					HasCompletedPayment(gomock.Any(), bookingID).
					Return(false, nil)
				repo.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						p.ID = uuid.New()
						return nil
					})
			},
			wantSecret: "pi_test_secret_abc",
		},
		{
			name:      "UnsupportedMethod",
			requester: tenant,
			method:    payment.Method("bitcoin"),
			gateway:   &stubGateway{},
			wantErr:   payment.ErrUnsupportedMethod,
		},
		{
			name:      "StrangerForbidden",
			requester: stranger,
			method:    payment.MethodCash,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
			},
			wantErr: payment.ErrForbidden,
		},
		{
			// A booking confirmed by the review endpoint has no completed
			// payment yet, so it may still take one.
			name:      "ConfirmedBookingStillPayable",
			requester: tenant,
			method:    payment.MethodCash,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				b := pendingBooking(bookingID, tenant.ID, 25_000_00)
				b.Status = booking.StatusConfirmed
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(b, nil)
				repo.EXPECT().
					HasCompletedPayment(gomock.Any(), bookingID).
					Return(false, nil)
				repo.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						p.ID = uuid.New()
						return nil
					})
				repo.EXPECT().
					SetIntentID(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantSecret: "cash_payment",
		},
		{
			name:      "CancelledBookingNotPayable",
			requester: tenant,
			method:    payment.MethodCash,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				b := pendingBooking(bookingID, tenant.ID, 25_000_00)
				b.Status = booking.StatusCancelled
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(b, nil)
			},
			wantErr: payment.ErrNotPayable,
		},
		{
			name:      "AlreadyPaid",
			requester: tenant,
			method:    payment.MethodGCash,
			gateway:   &stubGateway{},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
				repo.EXPECT().
					HasCompletedPayment(gomock.Any(), bookingID).
					Return(true, nil)
			},
			wantErr: payment.ErrAlreadyPaid,
		},
		{
			name:      "GatewayFailureSurfaces",
			requester: tenant,
			method:    payment.MethodCard,
			gateway:   &stubGateway{createErr: errors.New("processor down")},
			setupMock: func(repo *payment.MockRepository, bookings *payment.MockBookings) {
				bookings.EXPECT().
					GetBooking(gomock.Any(), bookingID).
					Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
				repo.EXPECT().
					HasCompletedPayment(gomock.Any(), bookingID).
					Return(false, nil)
			},
			wantErr: payment.ErrGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payment.NewMockRepository(ctrl)
			bookings := payment.NewMockBookings(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, bookings)
			}

			svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), tt.gateway, nil)
			got, err := svc.CreateIntent(context.Background(), tt.requester, bookingID, tt.method)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantSecret, got.ClientSecret)
			assert.Equal(t, int64(25_000_00), got.Amount)

			if tt.method == payment.MethodCash {
				assert.True(t, strings.HasPrefix(got.IntentID, "cash_"))
			}
		})
	}
}

func TestService_Confirm(t *testing.T) {
	bookingID := uuid.New()
	paymentID := uuid.New()
	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}

	cashIntent := "cash_" + paymentID.String()

	pendingPayment := func(intentID string) *payment.Payment {
		return &payment.Payment{
			ID:        paymentID,
			BookingID: bookingID,
			Amount:    25_000_00,
			Method:    payment.MethodCash,
			IntentID:  intentID,
			Status:    payment.StatusPending,
		}
	}

	t.Run("CashConfirmCompletesPaymentAndBooking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)

		repo.EXPECT().
			GetPaymentByIntentID(gomock.Any(), cashIntent).
			Return(pendingPayment(cashIntent), nil)
		bookings.EXPECT().
			GetBooking(gomock.Any(), bookingID).
			Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)
		repo.EXPECT().
			CompletePayment(gomock.Any(), paymentID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID, receipt string) (*payment.Payment, error) {
				require.True(t, strings.HasPrefix(receipt, "CASH-"))
				p := pendingPayment(cashIntent)
				p.Status = payment.StatusCompleted
				p.ReceiptNumber = receipt
				now := time.Now()
				p.PaidAt = &now
				return p, nil
			})

		svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		got, err := svc.Confirm(context.Background(), tenant, cashIntent)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, got.Status)
		assert.NotNil(t, got.PaidAt)
	})

	t.Run("CompletedConfirmIsIdempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)

		p := pendingPayment(cashIntent)
		p.Status = payment.StatusCompleted

		repo.EXPECT().
			GetPaymentByIntentID(gomock.Any(), cashIntent).
			Return(p, nil)
		bookings.EXPECT().
			GetBooking(gomock.Any(), bookingID).
			Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)

		svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		got, err := svc.Confirm(context.Background(), tenant, cashIntent)

		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("AmountMismatchRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)

		repo.EXPECT().
			GetPaymentByIntentID(gomock.Any(), cashIntent).
			Return(pendingPayment(cashIntent), nil)
		bookings.EXPECT().
			GetBooking(gomock.Any(), bookingID).
			Return(pendingBooking(bookingID, tenant.ID, 30_000_00), nil)

		svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		_, err := svc.Confirm(context.Background(), tenant, cashIntent)

		require.ErrorIs(t, err, payment.ErrAmountMismatch)
	})

	t.Run("CancelledBookingNotPayable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)

		repo.EXPECT().
			GetPaymentByIntentID(gomock.Any(), cashIntent).
			Return(pendingPayment(cashIntent), nil)

		b := pendingBooking(bookingID, tenant.ID, 25_000_00)
		b.Status = booking.StatusCancelled
		bookings.EXPECT().
			GetBooking(gomock.Any(), bookingID).
			Return(b, nil)

		svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		_, err := svc.Confirm(context.Background(), tenant, cashIntent)

		require.ErrorIs(t, err, payment.ErrNotPayable)
	})

	t.Run("GatewayIntentMustHaveSucceeded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)

		p := pendingPayment("pi_test")
		p.Method = payment.MethodCard

		repo.EXPECT().
			GetPaymentByIntentID(gomock.Any(), "pi_test").
			Return(p, nil)
		bookings.EXPECT().
			GetBooking(gomock.Any(), bookingID).
			Return(pendingBooking(bookingID, tenant.ID, 25_000_00), nil)

		svc := payment.NewService(repo, bookings, payment.NewMockProperties(ctrl), &stubGateway{intentStatus: "requires_payment_method"}, nil)
		_, err := svc.Confirm(context.Background(), tenant, "pi_test")

		require.ErrorIs(t, err, payment.ErrNotPayable)
	})
}

func TestService_Refund(t *testing.T) {
	bookingID := uuid.New()
	paymentID := uuid.New()
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}
	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}

	completedPayment := func(intentID string) *payment.Payment {
		return &payment.Payment{
			ID:        paymentID,
			BookingID: bookingID,
			Amount:    25_000_00,
			IntentID:  intentID,
			Status:    payment.StatusCompleted,
		}
	}

	t.Run("AdminRefundsGatewayPayment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		gw := &stubGateway{}

		refunded := completedPayment("pi_test")
		refunded.Status = payment.StatusRefunded

		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(completedPayment("pi_test"), nil)
		repo.EXPECT().RefundPayment(gomock.Any(), paymentID).Return(nil)
		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(refunded, nil)

		svc := payment.NewService(repo, payment.NewMockBookings(ctrl), payment.NewMockProperties(ctrl), gw, nil)
		got, err := svc.Refund(context.Background(), admin, paymentID)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded, got.Status)
		assert.Equal(t, []string{"pi_test"}, gw.refunded)
	})

	t.Run("CashRefundSkipsGateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		gw := &stubGateway{refundErr: errors.New("should not be called")}

		cashIntent := "cash_" + paymentID.String()
		refunded := completedPayment(cashIntent)
		refunded.Status = payment.StatusRefunded

		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(completedPayment(cashIntent), nil)
		repo.EXPECT().RefundPayment(gomock.Any(), paymentID).Return(nil)
		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(refunded, nil)

		svc := payment.NewService(repo, payment.NewMockBookings(ctrl), payment.NewMockProperties(ctrl), gw, nil)
		_, err := svc.Refund(context.Background(), admin, paymentID)

		require.NoError(t, err)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := payment.NewService(payment.NewMockRepository(ctrl), payment.NewMockBookings(ctrl), payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		_, err := svc.Refund(context.Background(), tenant, paymentID)

		require.ErrorIs(t, err, payment.ErrForbidden)
	})

	t.Run("PendingPaymentNotRefundable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		p := completedPayment("pi_test")
		p.Status = payment.StatusPending
		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(p, nil)

		svc := payment.NewService(repo, payment.NewMockBookings(ctrl), payment.NewMockProperties(ctrl), &stubGateway{}, nil)
		_, err := svc.Refund(context.Background(), admin, paymentID)

		require.ErrorIs(t, err, payment.ErrNotRefundable)
	})
}

func TestService_Review(t *testing.T) {
	bookingID := uuid.New()
	paymentID := uuid.New()
	propertyID := uuid.New()
	landlord := &user.User{ID: uuid.New(), Role: user.RoleOwner}
	tenant := &user.User{ID: uuid.New(), Role: user.RoleTenant}

	storedBooking := func() *booking.Booking {
		b := pendingBooking(bookingID, tenant.ID, 25_000_00)
		b.PropertyID = propertyID
		return b
	}

	storedPayment := func() *payment.Payment {
		return &payment.Payment{
			ID:        paymentID,
			BookingID: bookingID,
			Amount:    25_000_00,
			Method:    payment.MethodCash,
			IntentID:  "cash_" + paymentID.String(),
			Status:    payment.StatusPending,
		}
	}

	ownedProperty := func(ownerID uuid.UUID) *property.Property {
		return &property.Property{ID: propertyID, OwnerID: &ownerID, MonthlyPrice: 25_000_00}
	}

	t.Run("PropertyOwnerApproves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)
		props := payment.NewMockProperties(ctrl)

		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(storedPayment(), nil)
		bookings.EXPECT().GetBooking(gomock.Any(), bookingID).Return(storedBooking(), nil)
		props.EXPECT().Get(gomock.Any(), propertyID).Return(ownedProperty(landlord.ID), nil)
		repo.EXPECT().
			CompletePayment(gomock.Any(), paymentID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, receipt string) (*payment.Payment, error) {
				p := storedPayment()
				p.Status = payment.StatusCompleted
				p.ReceiptNumber = receipt
				return p, nil
			})

		svc := payment.NewService(repo, bookings, props, &stubGateway{}, nil)
		got, err := svc.Review(context.Background(), landlord, paymentID, true)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, got.Status)
		assert.True(t, strings.HasPrefix(got.ReceiptNumber, "CASH-"))
	})

	t.Run("UnrelatedOwnerForbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)
		props := payment.NewMockProperties(ctrl)

		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(storedPayment(), nil)
		bookings.EXPECT().GetBooking(gomock.Any(), bookingID).Return(storedBooking(), nil)
		props.EXPECT().Get(gomock.Any(), propertyID).Return(ownedProperty(uuid.New()), nil)

		svc := payment.NewService(repo, bookings, props, &stubGateway{}, nil)
		_, err := svc.Review(context.Background(), landlord, paymentID, true)

		require.ErrorIs(t, err, payment.ErrForbidden)
	})

	t.Run("RejectFailsPayment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := payment.NewMockRepository(ctrl)
		bookings := payment.NewMockBookings(ctrl)
		props := payment.NewMockProperties(ctrl)

		failed := storedPayment()
		failed.Status = payment.StatusFailed

		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(storedPayment(), nil)
		bookings.EXPECT().GetBooking(gomock.Any(), bookingID).Return(storedBooking(), nil)
		props.EXPECT().Get(gomock.Any(), propertyID).Return(ownedProperty(landlord.ID), nil)
		repo.EXPECT().FailPayment(gomock.Any(), paymentID).Return(nil)
		repo.EXPECT().GetPayment(gomock.Any(), paymentID).Return(failed, nil)

		svc := payment.NewService(repo, bookings, props, &stubGateway{}, nil)
		got, err := svc.Review(context.Background(), landlord, paymentID, false)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, got.Status)
	})
}
