package session

import (
	"fmt"
	"regexp"

	"github.com/fixitnow/chatsync/internal/config"
)

const DefaultSessionName = "main"

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Resolve determines the active session name using precedence:
// 1. flagOverride (--session flag)
// 2. config.toml default_session
// 3. "main"
// The result is validated.
func Resolve(flagOverride string) (string, error) {
	name := DefaultSessionName
	if flagOverride != "" {
		name = flagOverride
	} else if cfg, err := config.Load(ConfigPath()); err == nil && cfg.DefaultSession != "" {
		name = cfg.DefaultSession
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ValidateName checks that name conforms to session naming rules.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid session name %q: must match %s", name, nameRegexp)
	}
	return nil
}
