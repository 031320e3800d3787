package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde resolves a leading "~" or "~/" against the home directory.
// "~user" forms and unresolvable homes are returned unchanged.
func ExpandTilde(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/') {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// ExpandSecret resolves a secret written as ${NAME} from the environment.
// Anything else is returned unchanged, so literal secrets containing "$"
// keep working. An unset variable expands to "".
func ExpandSecret(s string) string {
	name, ok := envReference(s)
	if !ok {
		return s
	}
	return os.Getenv(name)
}

func envReference(s string) (string, bool) {
	if !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return "", false
	}
	name := s[2 : len(s)-1]
	if name == "" || strings.ContainsAny(name, "${} ") {
		return "", false
	}
	return name, true
}
