// Package npm resolves dependency versions through the npm registry.
package npm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/http"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/retry"
)

const (
	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.org"

	maxConcurrentLookups = 10
)

// Registry looks up the latest published version of a package.
type Registry interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// Client is the Registry backed by the npm HTTP API.
type Client struct {
	HTTP    http.Client
	BaseURL string
	Retry   *retry.Config
}

var defaultRegistry = sync.OnceValue(func() Registry {
	return NewClient(http.NewDefaultClient(
		http.WithBearerToken("registry.npmjs.org", http.GetNpmTokenFromEnv()),
	))
})

// DefaultRegistry returns the process-wide registry client, created on first use.
func DefaultRegistry() Registry {
	return defaultRegistry()
}

// NewClient returns a client for the public registry.
func NewClient(client http.Client) *Client {
	cfg := retry.DefaultConfig()
	return &Client{HTTP: client, BaseURL: DefaultRegistryURL, Retry: &cfg}
}

type latestResponse struct {
	Version string `json:"version"`
}

// LatestVersion fetches <registry>/<name>/latest and returns its version field.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/latest", strings.TrimSuffix(c.BaseURL, "/"), name)

	body, err := http.GetWithRetry(ctx, endpoint, c.HTTP, c.Retry)
	if err != nil {
		return "", lookupError(name, err)
	}

	var resp latestResponse
	if err := jsoniter.Unmarshal(body, &resp); err != nil {
		return "", lookupError(name, err)
	}
	if resp.Version == "" {
		return "", lookupError(name, fmt.Errorf("the registry response has no version"))
	}
	return resp.Version, nil
}

func lookupError(name string, cause error) error {
	return errUtils.Wrapf(errUtils.ErrRegistryLookup, cause, "Could not get the latest version for `%s`: %v", name, cause)
}

// LatestVersions looks up every name concurrently and returns the versions by name.
// A failed lookup is logged and yields Latest, so the dependency keeps its placeholder.
func LatestVersions(ctx context.Context, registry Registry, names []string) map[string]string {
	var (
		mu      sync.Mutex
		results = make(map[string]string, len(names))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, name := range names {
		mu.Lock()
		_, seen := results[name]
		if !seen {
			results[name] = Latest
		}
		mu.Unlock()
		if seen {
			continue
		}

		g.Go(func() error {
			version, err := registry.LatestVersion(ctx, name)
			if err != nil {
				log.Warn("Falling back to `latest`", "package", name, "error", err)
				return nil
			}
			log.Debug("Resolved latest version", "package", name, "version", version)
			mu.Lock()
			results[name] = version
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
