//go:build darwin

package cmd

// Registers the CoreGraphics input backend when built with cgo.
import _ "github.com/mj1618/desktop-scenarios/internal/platform/darwin"
