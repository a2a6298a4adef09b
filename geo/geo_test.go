package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixplate/apperr"
)

func geocodeServer(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", nil)
	c.baseURL = srv.URL
	return c
}

func TestResolveReturnsCoordinates(t *testing.T) {
	c := geocodeServer(t, `{"status":"OK","results":[{"geometry":{"location":{"lat":6.5,"lng":3.4}}}]}`)

	pt, err := c.Resolve(context.Background(), "1 Marina Road, Lagos")
	require.NoError(t, err)
	assert.Equal(t, 6.5, pt.Lat)
	assert.Equal(t, 3.4, pt.Lng)
}

func TestResolveUnknownAddressIsCallerFault(t *testing.T) {
	c := geocodeServer(t, `{"status":"ZERO_RESULTS","results":[]}`)

	_, err := c.Resolve(context.Background(), "nowhere at all")
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
}

func TestResolveProviderDenialIsServerFault(t *testing.T) {
	c := geocodeServer(t, `{"status":"REQUEST_DENIED","results":[]}`)

	_, err := c.Resolve(context.Background(), "1 Marina Road, Lagos")
	require.Error(t, err)

	var appErr *apperr.Error
	assert.False(t, errors.As(err, &appErr))
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestResolveProviderHTTPErrorIsServerFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient("test-key", nil)
	c.baseURL = srv.URL

	_, err := c.Resolve(context.Background(), "1 Marina Road, Lagos")
	require.Error(t, err)

	var appErr *apperr.Error
	assert.False(t, errors.As(err, &appErr))
}
