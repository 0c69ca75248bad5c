//go:build darwin

// Package darwin provides the macOS input backend using CoreGraphics events.
// It requires CGo and the Accessibility permission. Without CGo the package
// is empty and the clipboard-only provider is used.
package darwin
