package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBanUser_AcceptsIDField(t *testing.T) {
	uc := &mockUserUC{}
	uc.On("SetBanned", mock.Anything, int64(5), true).Return(nil)

	h := NewUserHandler(uc, validator.New(), nopLogger{})

	r := httptest.NewRequest(http.MethodPost, "/updatebanneduserstrue", strings.NewReader(`{"id":"5"}`))
	w := httptest.NewRecorder()

	h.banUser(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user banned")
	uc.AssertExpectations(t)
}

func TestUnbanUser_AcceptsIDField(t *testing.T) {
	uc := &mockUserUC{}
	uc.On("SetBanned", mock.Anything, int64(5), false).Return(nil)

	h := NewUserHandler(uc, validator.New(), nopLogger{})

	r := httptest.NewRequest(http.MethodPost, "/updatebannedusersfalse", strings.NewReader(`{"id":"5"}`))
	w := httptest.NewRecorder()

	h.unbanUser(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user unbanned")
	uc.AssertExpectations(t)
}

func TestBanUser_MissingID(t *testing.T) {
	uc := &mockUserUC{}
	h := NewUserHandler(uc, validator.New(), nopLogger{})

	r := httptest.NewRequest(http.MethodPost, "/updatebanneduserstrue", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.banUser(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
}
