package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/retry"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockClient(ctrl)
	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		return response(http.StatusOK, `{"version":"1.0.0"}`), nil
	})

	body, err := Get(context.Background(), "https://registry.example.com/pkg", client)

	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(body))
}

func TestGet_StatusError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockClient(ctrl)
	client.EXPECT().Do(gomock.Any()).Return(response(http.StatusNotFound, ""), nil)

	_, err := Get(context.Background(), "https://registry.example.com/pkg", client)

	require.ErrorIs(t, err, errUtils.ErrHTTPRequestFailed)
	var status StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, http.StatusNotFound, status.StatusCode)
}

func TestGetWithRetry(t *testing.T) {
	config := &retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond}

	t.Run("retries server errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := NewMockClient(ctrl)
		gomock.InOrder(
			client.EXPECT().Do(gomock.Any()).Return(response(http.StatusBadGateway, ""), nil),
			client.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, "ok"), nil),
		)

		body, err := GetWithRetry(context.Background(), "https://registry.example.com/pkg", client, config)

		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := NewMockClient(ctrl)
		client.EXPECT().Do(gomock.Any()).Return(response(http.StatusNotFound, ""), nil).Times(1)

		_, err := GetWithRetry(context.Background(), "https://registry.example.com/pkg", client, config)

		assert.ErrorIs(t, err, errUtils.ErrHTTPRequestFailed)
	})
}

func TestAuthenticatedTransport(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewDefaultClient(WithTimeout(time.Second), WithBearerToken("127.0.0.1", "secret"))
	_, err := Get(context.Background(), server.URL, client)
	require.NoError(t, err)

	other := NewDefaultClient(WithBearerToken("registry.npmjs.org", "secret"))
	_, err = Get(context.Background(), server.URL, other)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer secret", ""}, seen)
}
