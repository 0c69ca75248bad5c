package config

import "fmt"

// Error reports a missing or malformed configuration store: the permission
// list, the action mapping, or the config file itself. It is fatal to the
// operation that needed the store.
type Error struct {
	What string // human readable store name, e.g. "allowed scenarios"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s file %s: %v", e.What, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
