//go:build darwin && cgo

package darwin

import (
	"testing"

	"github.com/mj1618/desktop-scenarios/internal/action"
)

func TestParseKeyCombo(t *testing.T) {
	code, mods, err := parseKeyCombo([]string{"cmd", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if code != keyCodeMap["c"] || mods != modifierMap["cmd"] {
		t.Errorf("cmd+c = %#x/%#x", code, mods)
	}
	if _, _, err := parseKeyCombo([]string{"shift"}); err == nil {
		t.Error("modifier-only combo accepted")
	}
	if _, _, err := parseKeyCombo([]string{"hyper"}); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestSupportedKeysHaveKeyCodes(t *testing.T) {
	for _, k := range action.SupportedKeys {
		if _, ok := keyCodeMap[k]; !ok {
			t.Errorf("press_key name %q has no macOS key code", k)
		}
	}
}
