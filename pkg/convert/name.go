package convert

import (
	"fmt"
	"regexp"
	"strings"
)

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeToolName restricts a base name to the tool-name charset
// [A-Za-z0-9_-]. Dots are mapped to underscores first so dotted operation
// ids stay readable, then every remaining invalid character becomes an
// underscore. The function is idempotent.
func SanitizeToolName(name string) string {
	name = strings.ReplaceAll(name, ".", "_")
	return invalidNameChars.ReplaceAllString(name, "_")
}

// DeriveOperationID synthesizes a candidate identifier from an HTTP method
// and a path template, for operations that declare no operationId. Path
// parameters contribute "by_<param>" segments: GET /users/{id} becomes
// "get_users_by_id". Returns "" when no usable identifier can be derived.
func DeriveOperationID(method, path string) string {
	if method == "" {
		return ""
	}

	parts := []string{strings.ToLower(method)}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			param := strings.TrimSuffix(strings.TrimPrefix(segment, "{"), "}")
			if param != "" {
				parts = append(parts, "by_"+param)
			}
			continue
		}
		parts = append(parts, strings.ToLower(segment))
	}
	return strings.Join(parts, "_")
}

// nameRegistry enforces tool-name uniqueness within one extraction run.
// The first occurrence keeps the bare base name; later collisions get
// "_1", "_2", ... suffixes with the counter scoped per base name.
type nameRegistry struct {
	used     map[string]struct{}
	counters map[string]int
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{
		used:     make(map[string]struct{}),
		counters: make(map[string]int),
	}
}

func (r *nameRegistry) claim(base string) string {
	name := base
	for {
		if _, taken := r.used[name]; !taken {
			r.used[name] = struct{}{}
			return name
		}
		r.counters[base]++
		name = fmt.Sprintf("%s_%d", base, r.counters[base])
	}
}
