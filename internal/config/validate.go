package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks a decoded workspace document against the configuration
// contract. doc is the generic result of decoding JSON or YAML.
//
// The document must be an object. "layout", when present, must be exactly
// "split" or "tabs"; any other value rejects the whole document. "terminals"
// must be present and be a list of objects with string "name" and
// "command" (empty strings are accepted). "closeExisting" and
// "launchOnStart", when present, must be booleans.
func Validate(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok || obj == nil {
		return invalidf("configuration must be an object")
	}

	if v, present := obj["layout"]; present {
		s, isString := v.(string)
		if !isString || !Layout(s).Valid() {
			return invalidf("%q must be %q or %q", "layout", LayoutSplit, LayoutTabs)
		}
	}

	raw, present := obj["terminals"]
	if !present {
		return invalidf("%q is required", "terminals")
	}
	list, ok := raw.([]any)
	if !ok {
		return invalidf("%q must be an array", "terminals")
	}
	for i, item := range list {
		t, ok := item.(map[string]any)
		if !ok || t == nil {
			return invalidf("terminals[%d] must be an object", i)
		}
		if _, ok := t["name"].(string); !ok {
			return invalidf("terminals[%d].name must be a string", i)
		}
		if _, ok := t["command"].(string); !ok {
			return invalidf("terminals[%d].command must be a string", i)
		}
	}

	for _, key := range []string{"closeExisting", "launchOnStart"} {
		if v, present := obj[key]; present {
			if _, ok := v.(bool); !ok {
				return invalidf("%q must be a boolean", key)
			}
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
