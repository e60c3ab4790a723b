package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/dshills/blockedit/internal/config/layer"
)

// DefaultEnvPrefix is the prefix of the editor's environment variables.
const DefaultEnvPrefix = "BLOCKEDIT_"

// EnvLoader loads configuration from prefixed environment variables.
// BLOCKEDIT_EDITOR_TAB_WIDTH=2 becomes editor.tabWidth = 2.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // variable -> config path
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix. The
// prefix includes its trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "LOG_FILE":  "logging.file",
		},
		environ: os.Environ,
	}
}

// AddMapping routes an environment variable to a config path that the
// naming rule would not produce.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// Load returns the values of all prefixed variables.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		layer.SetByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts PREFIX_SECTION_SOME_NAME to section.someName.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	name := strings.ToLower(parts[1])
	for _, p := range parts[2:] {
		if p != "" {
			name += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return strings.ToLower(parts[0]) + "." + name
}

// parseValue types a variable's value. Only the words true/false, yes/no
// and on/off are booleans, so numeric settings such as a tab width of 1
// stay numbers. Durations stay strings and are parsed on access.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
