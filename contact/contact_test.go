package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tixplate/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, msg *models.Contact) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestSubmitStoresMessage(t *testing.T) {
	store := new(MockStore)
	h := &Handler{Store: store}

	store.On("Insert", mock.Anything, mock.MatchedBy(func(msg *models.Contact) bool {
		return msg.Email == "ada@example.com" && msg.Message == "Hello there, quick question."
	})).Return(nil)

	body := `{"name":"Ada","email":"ada@example.com","message":"Hello there, quick question."}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "successfully sent")
	store.AssertExpectations(t)
}

func TestSubmitShortMessage(t *testing.T) {
	store := new(MockStore)
	h := &Handler{Store: store}

	body := `{"name":"Ada","email":"ada@example.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitBadEmail(t *testing.T) {
	store := new(MockStore)
	h := &Handler{Store: store}

	body := `{"name":"Ada","email":"not-an-email","message":"Hello there, quick question."}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
