// Package envconfig reads cugan defaults from the environment.
//
// Every getter re-reads its variable, so tests can use t.Setenv. Command
// line flags take precedence over these defaults.
package envconfig

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// Models returns the directory model files are resolved against.
// Configurable via CUGAN_MODELS. Default: "models".
func Models() string {
	if s := Var("CUGAN_MODELS"); s != "" {
		return s
	}
	return "models"
}

// LogLevel returns the log level.
// Configurable via CUGAN_DEBUG: 0/false = INFO (default), 1/true = DEBUG,
// other integers n = level -4n.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("CUGAN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Alpha returns the default denoise/sharpen strength.
// Configurable via CUGAN_ALPHA. Default: 1.
func Alpha() float32 {
	if s := Var("CUGAN_ALPHA"); s != "" {
		if f, err := strconv.ParseFloat(s, 32); err == nil && f > 0 && !math.IsInf(f, 0) {
			return float32(f)
		}
		slog.Warn("invalid environment variable, using default", "key", "CUGAN_ALPHA", "value", s, "default", 1)
	}
	return 1
}

var (
	// TileSize is the default tile size; 0 disables tiling.
	TileSize = Uint("CUGAN_TILE_SIZE", 0)
	// NoCache disables the tile activation cache.
	NoCache = Bool("CUGAN_NO_CACHE")
	// NumThreads caps the CPU backend's workers; 0 uses every CPU.
	NumThreads = Uint("CUGAN_NUM_THREADS", 0)
)

// BoolWithDefault returns a getter for a boolean variable. Set but
// unparsable values read as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable defaulting to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for an unsigned variable.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one variable for help output.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"CUGAN_DEBUG":       {"CUGAN_DEBUG", LogLevel(), "Show additional debug information (e.g. CUGAN_DEBUG=1)"},
		"CUGAN_MODELS":      {"CUGAN_MODELS", Models(), "The path to the models directory (default \"models\")"},
		"CUGAN_TILE_SIZE":   {"CUGAN_TILE_SIZE", TileSize(), "Tile size for tiled inference, 0 to disable (default 0)"},
		"CUGAN_NO_CACHE":    {"CUGAN_NO_CACHE", NoCache(), "Recompute tile activations instead of caching them"},
		"CUGAN_ALPHA":       {"CUGAN_ALPHA", Alpha(), "Denoise/sharpen strength (default 1)"},
		"CUGAN_NUM_THREADS": {"CUGAN_NUM_THREADS", NumThreads(), "Maximum CPU worker goroutines, 0 for all CPUs"},
	}
}

// Values returns every variable's current value as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Var returns an environment variable stripped of spaces and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
