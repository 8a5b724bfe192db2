package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/casita/internal/audit"
)

func TestService_RecordSwallowsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := audit.NewMockRepository(ctrl)
	repo.EXPECT().
		InsertEntry(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))

	svc := audit.NewService(repo)

	// Must not panic or propagate; a broken audit trail never blocks the
	// operation being audited.
	svc.Record(context.Background(), audit.Entry{
		Action:      audit.ActionLogin,
		EntityType:  "user",
		Description: "user login",
	})
}

func TestService_ListClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "ZeroDefaults", limit: 0, wantLimit: 100},
		{name: "NegativeDefaults", limit: -5, wantLimit: 100},
		{name: "OversizedDefaults", limit: 10_000, wantLimit: 100},
		{name: "InRangeKept", limit: 50, wantLimit: 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := audit.NewMockRepository(ctrl)
			repo.EXPECT().
				ListEntries(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
					require.Equal(t, tc.wantLimit, filter.Limit)
					return nil, nil
				})

			svc := audit.NewService(repo)

			_, err := svc.List(context.Background(), audit.ListFilter{Limit: tc.limit})
			require.NoError(t, err)
		})
	}
}
