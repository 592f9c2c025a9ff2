package config

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

// ExpandEnv expands {{.VAR_NAME}} placeholders in YAML content against
// the current process environment, using Go's text/template package.
//
// Examples:
//   - {{.GOOGLE_API_KEY}} -> value of GOOGLE_API_KEY environment variable
//   - {{.DB_HOST}}:{{.DB_PORT}} -> hostname:port with both variables expanded
//
// Missing variables expand to an empty string; validation should catch
// required fields that end up empty. Malformed template syntax (an
// unclosed {{, a bad field reference) is passed through unchanged
// rather than erroring here, so the YAML parser reports whatever is
// actually wrong with the document.
func ExpandEnv(data []byte) []byte {
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, envMap()); err != nil {
		return data
	}
	return buf.Bytes()
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
