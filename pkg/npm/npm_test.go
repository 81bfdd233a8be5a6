package npm

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/http"
	"github.com/cloudposse/sketch/pkg/retry"
)

func TestVersionRange_Create(t *testing.T) {
	tests := []struct {
		rng     VersionRange
		version string
		want    string
	}{
		{RangeMinor, "1.2.3", "^1.2.3"},
		{RangePatch, "1.2.3", "~1.2.3"},
		{RangeExact, "1.2.3", "1.2.3"},
		{"", "1.2.3", "^1.2.3"},
		{RangePatch, "latest", "latest"},
		{RangeMinor, "catalog:", "catalog:"},
		{RangeExact, "catalog:svelte", "catalog:svelte"},
	}

	for _, tt := range tests {
		t.Run(string(tt.rng)+"/"+tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rng.Create(tt.version))
		})
	}
}

func TestParseVersionRange(t *testing.T) {
	r, err := ParseVersionRange("Patch")
	require.NoError(t, err)
	assert.Equal(t, RangePatch, r)

	var flag VersionRange
	require.NoError(t, flag.Set("exact"))
	assert.Equal(t, RangeExact, flag)

	_, err = ParseVersionRange("major")
	assert.ErrorIs(t, err, errUtils.ErrUnsupportedValue)
}

func newTestClient(t *testing.T) (*Client, *http.MockClient) {
	ctrl := gomock.NewController(t)
	mock := http.NewMockClient(ctrl)
	return &Client{HTTP: mock, BaseURL: "https://registry.test/", Retry: &retry.Config{MaxAttempts: 1}}, mock
}

func body(status int, s string) *nethttp.Response {
	return &nethttp.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(s))}
}

func TestClient_LatestVersion(t *testing.T) {
	client, mock := newTestClient(t)
	mock.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *nethttp.Request) (*nethttp.Response, error) {
		assert.Equal(t, "https://registry.test/@types/node/latest", req.URL.String())
		return body(nethttp.StatusOK, `{"name":"@types/node","version":"22.1.0"}`), nil
	})

	version, err := client.LatestVersion(context.Background(), "@types/node")

	require.NoError(t, err)
	assert.Equal(t, "22.1.0", version)
}

func TestClient_LatestVersionErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		client, mock := newTestClient(t)
		mock.EXPECT().Do(gomock.Any()).Return(body(nethttp.StatusNotFound, ""), nil)

		_, err := client.LatestVersion(context.Background(), "ghost")

		require.ErrorIs(t, err, errUtils.ErrRegistryLookup)
		assert.Contains(t, err.Error(), "Could not get the latest version for `ghost`")
	})

	t.Run("missing version", func(t *testing.T) {
		client, mock := newTestClient(t)
		mock.EXPECT().Do(gomock.Any()).Return(body(nethttp.StatusOK, `{}`), nil)

		_, err := client.LatestVersion(context.Background(), "empty")

		assert.ErrorIs(t, err, errUtils.ErrRegistryLookup)
	})
}

type fakeRegistry struct {
	mu       sync.Mutex
	versions map[string]string
	calls    []string
}

func (f *fakeRegistry) LatestVersion(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if v, ok := f.versions[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestLatestVersions(t *testing.T) {
	registry := &fakeRegistry{versions: map[string]string{"svelte": "5.0.0", "vitest": "3.1.0"}}

	got := LatestVersions(context.Background(), registry, []string{"svelte", "vitest", "ghost", "svelte"})

	assert.Equal(t, map[string]string{"svelte": "5.0.0", "vitest": "3.1.0", "ghost": Latest}, got)
	assert.Len(t, registry.calls, 3)
}
