package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
)

func newUserUC() (*UserUseCase, *mockUserRepo) {
	repo := &mockUserRepo{}
	return NewUserUC(repo, nopLogger{}), repo
}

func TestListUsers(t *testing.T) {
	uc, repo := newUserUC()

	phone := "+79990000000"
	repo.On("List", mock.Anything).Return([]domain.User{
		{ID: 1, Name: "Ivan", Email: "ivan@example.com", Phone: &phone},
	}, nil)

	users, err := uc.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ivan@example.com", users[0].Email)
}

func TestSetBanned_RequiresUserID(t *testing.T) {
	uc, repo := newUserUC()

	err := uc.SetBanned(context.Background(), 0, true)

	assert.ErrorIs(t, err, e.ErrUserIDRequired)
	repo.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetBanned_NotFound(t *testing.T) {
	uc, repo := newUserUC()
	repo.On("SetBanned", mock.Anything, int64(5), true).Return(e.ErrUserNotFound)

	err := uc.SetBanned(context.Background(), 5, true)

	assert.ErrorIs(t, err, e.ErrUserNotFound)
}

func TestSetBanned_Idempotent(t *testing.T) {
	uc, repo := newUserUC()
	repo.On("SetBanned", mock.Anything, int64(5), true).Return(nil).Twice()

	require.NoError(t, uc.SetBanned(context.Background(), 5, true))
	require.NoError(t, uc.SetBanned(context.Background(), 5, true))
	repo.AssertExpectations(t)
}

func TestUpdateByAdmin_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *UpdateUserReq
		wantErr error
	}{
		{
			name:    "missing id",
			req:     NewUpdateUserReq(0, "Ivan", nil, nil),
			wantErr: e.ErrUserIDRequired,
		},
		{
			name:    "empty name",
			req:     NewUpdateUserReq(5, "   ", nil, nil),
			wantErr: e.ErrUserNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newUserUC()

			err := uc.UpdateByAdmin(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "UpdateByAdmin", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateByAdmin_PropagatesRepoErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "user not found", repoErr: e.ErrUserNotFound},
		{name: "no changes", repoErr: e.ErrNoChanges},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newUserUC()
			repo.On("UpdateByAdmin", mock.Anything, mock.AnythingOfType("*usecase.UpdateUserReq")).
				Return(tt.repoErr)

			err := uc.UpdateByAdmin(context.Background(), NewUpdateUserReq(5, "Ivan", nil, nil))

			assert.ErrorIs(t, err, tt.repoErr)
		})
	}
}

func TestUpdateByAdmin_Success(t *testing.T) {
	uc, repo := newUserUC()

	address := "Moscow, Tverskaya 1"
	repo.On("UpdateByAdmin", mock.Anything, mock.MatchedBy(func(req *UpdateUserReq) bool {
		return req.ID == 5 && req.Name == "Ivan" && req.Address == &address
	})).Return(nil)

	err := uc.UpdateByAdmin(context.Background(), NewUpdateUserReq(5, "Ivan", &address, nil))

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
