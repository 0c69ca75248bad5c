package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mj1618/desktop-scenarios/internal/config"
)

var (
	// ErrNotListed means no permission record exists for the requested name.
	ErrNotListed = errors.New("scenario is not listed in the allowed scenarios")
	// ErrNotAllowed means a record exists but has allowed set to false.
	ErrNotAllowed = errors.New("scenario is not allowed")
)

// Permission gates whether a scenario name may be resolved to a file.
// Alias, when set, names the scenario file instead of Name.
type Permission struct {
	Name    string `json:"name"            yaml:"name"`
	Allowed bool   `json:"allowed"         yaml:"allowed"`
	Alias   string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// FileBase returns the scenario file name (without extension) the record points to.
func (p Permission) FileBase() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Name
}

// LoadPermissions reads the JSON-encoded permission list at path.
// Missing or malformed files are reported as *config.Error.
func LoadPermissions(path string) ([]Permission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.Error{What: "allowed scenarios", Path: path, Err: err}
	}
	var perms []Permission
	if err := json.Unmarshal(data, &perms); err != nil {
		return nil, &config.Error{What: "allowed scenarios", Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return perms, nil
}

// Lookup finds the first record for name. It returns ErrNotListed when no
// record exists and ErrNotAllowed when the record is disabled.
func Lookup(perms []Permission, name string) (Permission, error) {
	for _, p := range perms {
		if p.Name != name {
			continue
		}
		if !p.Allowed {
			return p, fmt.Errorf("%w: %q", ErrNotAllowed, name)
		}
		return p, nil
	}
	return Permission{}, fmt.Errorf("%w: %q", ErrNotListed, name)
}

// SavePermissions writes perms as indented JSON.
func SavePermissions(path string, perms []Permission) error {
	if perms == nil {
		perms = []Permission{}
	}
	data, err := json.MarshalIndent(perms, "", "  ")
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write permissions %s: %w", path, err)
	}
	return nil
}
