package config

import (
	"fmt"
	"sort"
	"strings"
)

// KeyMap binds key names (as reported by bubbletea) to controls.
type KeyMap struct {
	Submit []string `toml:"submit"`
	Focus  []string `toml:"focus"`
	Up     []string `toml:"up"`
	Down   []string `toml:"down"`
	Toggle []string `toml:"toggle"`
	Delete []string `toml:"delete"`
	Clear  []string `toml:"clear"`
	Quit   []string `toml:"quit"`
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: []string{"enter"},
		Focus:  []string{"tab"},
		Up:     []string{"up", "k"},
		Down:   []string{"down", "j"},
		Toggle: []string{" ", "x"},
		Delete: []string{"d", "delete"},
		Clear:  []string{"c"},
		Quit:   []string{"q"},
	}
}

// reservedKey always quits and cannot be rebound.
const reservedKey = "ctrl+c"

// KeyBindingError reports a broken key map.
type KeyBindingError struct {
	Control string
	Key     string
	Reason  string
}

func (e *KeyBindingError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("key %q for %s: %s", e.Key, e.Control, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Control, e.Reason)
}

// controls lists each control with its bindings and whether it is required.
func (k KeyMap) controls() []struct {
	name     string
	keys     []string
	required bool
} {
	return []struct {
		name     string
		keys     []string
		required bool
	}{
		{"submit", k.Submit, true},
		{"focus", k.Focus, true},
		{"up", k.Up, false},
		{"down", k.Down, false},
		{"toggle", k.Toggle, true},
		{"delete", k.Delete, true},
		{"clear", k.Clear, true},
		{"quit", k.Quit, false},
	}
}

// Validate checks that every required control is bound and that no key
// drives two controls.
func (k KeyMap) Validate() error {
	owner := make(map[string]string)
	var errs []string

	for _, c := range k.controls() {
		bound := 0
		for _, key := range c.keys {
			if key == "" {
				continue
			}
			bound++
			if key == reservedKey {
				errs = append(errs, (&KeyBindingError{Control: c.name, Key: key, Reason: "reserved for quit"}).Error())
				continue
			}
			if prev, ok := owner[key]; ok && prev != c.name {
				errs = append(errs, (&KeyBindingError{Control: c.name, Key: key, Reason: "already bound to " + prev}).Error())
				continue
			}
			owner[key] = c.name
		}
		if c.required && bound == 0 {
			errs = append(errs, (&KeyBindingError{Control: c.name, Reason: "no key bound"}).Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("invalid key bindings: %s", strings.Join(errs, "; "))
}

// Lookup returns the control bound to key, or "" if none.
func (k KeyMap) Lookup(key string) string {
	for _, c := range k.controls() {
		for _, bound := range c.keys {
			if bound == key {
				return c.name
			}
		}
	}
	return ""
}

// Describe returns a short help label for a control, e.g. "space/x".
func Describe(keys []string) string {
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		switch key {
		case "":
			continue
		case " ":
			labels = append(labels, "space")
		default:
			labels = append(labels, key)
		}
	}
	return strings.Join(labels, "/")
}
