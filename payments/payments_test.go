package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntents struct {
	amountCents int64
	currency    string
	err         error
}

func (f *fakeIntents) CreateIntent(_ context.Context, amountCents int64, currency string) (string, error) {
	f.amountCents = amountCents
	f.currency = currency
	if f.err != nil {
		return "", f.err
	}
	return "pi_test_secret", nil
}

func TestCreateIntentTotalsLineItems(t *testing.T) {
	intents := &fakeIntents{}
	h := &Handler{Intents: intents}

	body := `{"items":[{"price":19.99,"quantity":2},{"price":5.5,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateIntent(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	// 19.99*2 + 5.50 = 45.48 -> 4548 cents
	assert.Equal(t, int64(4548), intents.amountCents)
	assert.Equal(t, "usd", intents.currency)
	assert.Contains(t, rec.Body.String(), "pi_test_secret")
}

func TestCreateIntentDefaultsQuantityToOne(t *testing.T) {
	intents := &fakeIntents{}
	h := &Handler{Intents: intents}

	body := `{"items":[{"price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateIntent(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1000), intents.amountCents)
}

func TestCreateIntentEmptyCart(t *testing.T) {
	intents := &fakeIntents{}
	h := &Handler{Intents: intents}

	req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	h.CreateIntent(rec, req, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, intents.amountCents)
}

func TestClientParsesProviderResponse(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"client_secret":"pi_12345_secret"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_key")
	c.baseURL = srv.URL

	secret, err := c.CreateIntent(context.Background(), 4548, "usd")
	require.NoError(t, err)
	assert.Equal(t, "pi_12345_secret", secret)
	assert.Equal(t, "Bearer sk_test_key", gotAuth)
	assert.Contains(t, gotBody, "amount=4548")
	assert.Contains(t, gotBody, "currency=usd")
}

func TestClientProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_key")
	c.baseURL = srv.URL

	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
