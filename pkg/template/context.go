package template

import (
	"maps"
	"os"
	"runtime"
	"strings"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/xdg"
)

const unknown = "unknown"

// DefaultContext returns the values every render starts from.
func DefaultContext() map[string]any {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = unknown
	}

	goos := runtime.GOOS
	family := osFamily(goos)

	vars := map[string]any{
		"sketch_cwd":        cwd,
		"sketch_os":         goos,
		"sketch_os_family":  family,
		"sketch_arch":       runtime.GOARCH,
		"sketch_is_windows": goos == "windows",
		"sketch_is_unix":    family == "unix",
		"sketch_is_macos":   goos == "darwin",
		"sketch_is_linux":   goos == "linux",
		"sketch_is_wsl":     goos == "linux" && isWSL(),
		"sketch_xdg_config": xdg.ConfigHome(),
		"sketch_xdg_data":   xdg.DataHome(),
		"sketch_xdg_cache":  xdg.CacheHome(),
		"sketch_xdg_state":  xdg.StateHome(),
		"sketch_tmp_dir":    os.TempDir(),
		"sketch_home":       xdg.Home(),
	}

	if user := firstEnv("USER", "USERNAME"); user != "" {
		vars["sketch_user"] = user
	}
	if host := hostname(); host != "" {
		vars["sketch_hostname"] = host
	}
	return vars
}

// GlobalVars seeds the defaults and puts the configuration vars on top.
func GlobalVars(vars *orderedmap.Map[any]) map[string]any {
	return layer(DefaultContext(), vars.Plain())
}

func osFamily(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "js", "wasip1":
		return unknown
	default:
		return "unix"
	}
}

func isWSL() bool {
	release, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return false
	}
	lower := strings.ToLower(string(release))
	return strings.Contains(lower, "microsoft") || strings.Contains(lower, "wsl")
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func hostname() string {
	if host := os.Getenv("HOSTNAME"); host != "" {
		return host
	}
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	return host
}

// ContextState tells which layers the current view of a Context holds.
type ContextState int

const (
	// NoCliOverrides is the global context as loaded.
	NoCliOverrides ContextState = iota
	// CliOverridesOnly is the global context with the CLI overrides on top.
	CliOverridesOnly
	// Dirty means a preset-local layer is applied and must be reset before the next preset.
	Dirty
)

func (s ContextState) String() string {
	switch s {
	case NoCliOverrides:
		return "NoCliOverrides"
	case CliOverridesOnly:
		return "CliOverridesOnly"
	default:
		return "Dirty"
	}
}

// Context layers the variables of a render: global, then preset-local, then CLI overrides.
// The global map is never copied unless an overlay is in effect.
type Context struct {
	global  map[string]any
	cli     map[string]any
	base    map[string]any
	current map[string]any
	state   ContextState
}

// NewContext starts in CliOverridesOnly when cli has entries and in NoCliOverrides otherwise.
func NewContext(global, cli map[string]any) *Context {
	c := &Context{global: global, cli: cli}
	if len(cli) == 0 {
		c.base = global
		c.state = NoCliOverrides
	} else {
		c.base = layer(global, cli)
		c.state = CliOverridesOnly
	}
	c.current = c.base
	return c
}

func layer(layers ...map[string]any) map[string]any {
	size := 0
	for _, m := range layers {
		size += len(m)
	}
	out := make(map[string]any, size)
	for _, m := range layers {
		maps.Copy(out, m)
	}
	return out
}

func (c *Context) baseState() ContextState {
	if len(c.cli) == 0 {
		return NoCliOverrides
	}
	return CliOverridesOnly
}

// ApplyLocal puts local between the global context and the CLI overrides and returns the resulting view.
// An empty local resets a dirty view back to the base layers.
func (c *Context) ApplyLocal(local map[string]any) map[string]any {
	switch {
	case len(local) > 0:
		c.current = layer(c.global, local, c.cli)
		c.state = Dirty
	case c.state == Dirty:
		c.current = c.base
		c.state = c.baseState()
	}
	log.Trace("Applied local context", "keys", len(local), "state", c.state)
	return c.current
}

// Vars is the current view.
func (c *Context) Vars() map[string]any {
	return c.current
}

func (c *Context) State() ContextState {
	return c.state
}

// CLI returns the CLI overrides.
func (c *Context) CLI() map[string]any {
	return c.cli
}
