package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/casita/internal/user"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		setupMock func(repo *user.MockRepository)
		wantErr   error
		wantRole  user.Role
	}

	tests := []testCase{
		{
			name: "Success",
			params: user.RegisterParams{
				Email:    "maria@example.com",
				Username: "maria",
				Password: "s3cret-pass",
				FullName: "Maria Santos",
			},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantRole: user.RoleTenant,
		},
		{
			name: "OwnerRoleKept",
			params: user.RegisterParams{
				Email:    "jose@example.com",
				Username: "jose",
				Password: "s3cret-pass",
				Role:     user.RoleOwner,
			},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantRole: user.RoleOwner,
		},
		{
			name: "MissingEmail",
			params: user.RegisterParams{
				Username: "maria",
				Password: "s3cret-pass",
			},
			wantErr: user.ErrValidation,
		},
		{
			name: "ShortPassword",
			params: user.RegisterParams{
				Email:    "maria@example.com",
				Username: "maria",
				Password: "short",
			},
			wantErr: user.ErrValidation,
		},
		{
			name: "EmailTaken",
			params: user.RegisterParams{
				Email:    "maria@example.com",
				Username: "maria",
				Password: "s3cret-pass",
			},
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					Return(user.ErrEmailTaken)
			},
			wantErr: user.ErrEmailTaken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := user.NewMockRepository(ctrl)
			if tc.setupMock != nil {
				tc.setupMock(repo)
			}

			svc := user.NewService(repo)

			u, err := svc.Register(context.Background(), tc.params)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantRole, u.Role)
			assert.True(t, u.IsActive)
			assert.NotEqual(t, tc.params.Password, u.HashedPassword)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	active := &user.User{
		Email:          "maria@example.com",
		HashedPassword: string(hash),
		IsActive:       true,
	}
	disabled := &user.User{
		Email:          "maria@example.com",
		HashedPassword: string(hash),
		IsActive:       false,
	}

	type testCase struct {
		name      string
		password  string
		setupMock func(repo *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			password: "s3cret-pass",
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					GetUserByEmail(gomock.Any(), "maria@example.com").
					Return(active, nil)
			},
		},
		{
			name:     "WrongPassword",
			password: "not-the-pass",
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					GetUserByEmail(gomock.Any(), "maria@example.com").
					Return(active, nil)
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "UnknownEmail",
			password: "s3cret-pass",
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					GetUserByEmail(gomock.Any(), "maria@example.com").
					Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "DisabledAccount",
			password: "s3cret-pass",
			setupMock: func(repo *user.MockRepository) {
				repo.EXPECT().
					GetUserByEmail(gomock.Any(), "maria@example.com").
					Return(disabled, nil)
			},
			wantErr: user.ErrInvalidCredentials,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := user.NewMockRepository(ctrl)
			tc.setupMock(repo)

			svc := user.NewService(repo)

			u, err := svc.Authenticate(context.Background(), "maria@example.com", tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "maria@example.com", u.Email)
		})
	}
}
