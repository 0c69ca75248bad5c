package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrScenarioNotFound means the permission record resolved but no file exists.
var ErrScenarioNotFound = errors.New("scenario file not found")

// Store resolves scenario names to files through the permission list.
// The permission file is re-read on every call so edits apply immediately.
type Store struct {
	Dir             string
	PermissionsPath string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir, permissionsPath string) *Store {
	return &Store{Dir: dir, PermissionsPath: permissionsPath}
}

// Permissions loads the current permission list.
func (s *Store) Permissions() ([]Permission, error) {
	return LoadPermissions(s.PermissionsPath)
}

// Resolve validates name against the permission list and returns the path of
// the scenario file it points to.
func (s *Store) Resolve(name string) (string, error) {
	perms, err := s.Permissions()
	if err != nil {
		return "", err
	}
	p, err := Lookup(perms, name)
	if err != nil {
		return "", err
	}
	return s.pathFor(p, name)
}

func (s *Store) pathFor(p Permission, requested string) (string, error) {
	base := p.FileBase()
	if base == "" || base != filepath.Base(base) || strings.HasPrefix(base, ".") {
		return "", fmt.Errorf("invalid scenario file name %q (resolved from %q)", base, requested)
	}
	candidates := make([]string, 0, len(Extensions)+1)
	if HasScenarioExtension(base) {
		candidates = append(candidates, base)
	}
	for _, ext := range Extensions {
		candidates = append(candidates, base+ext)
	}
	for _, c := range candidates {
		path := filepath.Join(s.Dir, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (resolved from name/alias %q)", ErrScenarioNotFound, filepath.Join(s.Dir, base+".json"), requested)
}

// HasScenarioExtension reports whether name ends in one of Extensions.
func HasScenarioExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load resolves name and decodes its scenario file.
func (s *Store) Load(name string) (*Scenario, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	sc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = name
	}
	return sc, nil
}

// PathOf returns the path Save uses for name.
func (s *Store) PathOf(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// Save writes sc as <Dir>/<name>.json.
func (s *Store) Save(sc *Scenario) (string, error) {
	if sc.Name == "" || sc.Name != filepath.Base(sc.Name) {
		return "", fmt.Errorf("invalid scenario name %q", sc.Name)
	}
	path := s.PathOf(sc.Name)
	return path, SaveFile(path, sc)
}

// Entry describes one permission record and the file it resolves to.
type Entry struct {
	Name      string `yaml:"name"            json:"name"`
	Alias     string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Allowed   bool   `yaml:"allowed"         json:"allowed"`
	File      string `yaml:"file,omitempty"  json:"file,omitempty"`
	Available bool   `yaml:"available"       json:"available"`
}

// List reports every permission record with its resolved file, if any.
func (s *Store) List() ([]Entry, error) {
	perms, err := s.Permissions()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(perms))
	for _, p := range perms {
		e := Entry{Name: p.Name, Alias: p.Alias, Allowed: p.Allowed}
		if path, err := s.pathFor(p, p.Name); err == nil {
			e.File = path
			e.Available = true
		}
		entries = append(entries, e)
	}
	return entries, nil
}
