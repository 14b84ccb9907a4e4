package docver

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Well-known front-matter keys.
const (
	AttrTitle       = "title"
	AttrDescription = "description"
	AttrDisabled    = "disabled"
)

// Attributes holds a document's front-matter. The well-known keys are typed;
// everything else is kept verbatim in Extra.
type Attributes struct {
	Title       string
	Description string
	Disabled    bool
	Extra       map[string]any
}

// NewAttributes builds Attributes from a decoded front-matter mapping.
// Well-known keys of an unexpected type are coerced where sensible
// (e.g. `disabled: "yes"`), otherwise kept in Extra.
func NewAttributes(fields map[string]any) Attributes {
	var a Attributes
	for k, v := range fields {
		switch strings.ToLower(k) {
		case AttrTitle:
			if s, ok := v.(string); ok {
				a.Title = s
				continue
			}
		case AttrDescription:
			if s, ok := v.(string); ok {
				a.Description = s
				continue
			}
		case AttrDisabled:
			if b, ok := toBool(v); ok {
				a.Disabled = b
				continue
			}
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[k] = v
	}
	return a
}

// Get returns the value stored under key, well-known or not.
func (a Attributes) Get(key string) (any, bool) {
	switch key {
	case AttrTitle:
		return a.Title, a.Title != ""
	case AttrDescription:
		return a.Description, a.Description != ""
	case AttrDisabled:
		return a.Disabled, a.Disabled
	}
	v, ok := a.Extra[key]
	return v, ok
}

// Map returns the attributes as one flat mapping.
func (a Attributes) Map() map[string]any {
	m := make(map[string]any, len(a.Extra)+3)
	for k, v := range a.Extra {
		m[k] = v
	}
	if a.Title != "" {
		m[AttrTitle] = a.Title
	}
	if a.Description != "" {
		m[AttrDescription] = a.Description
	}
	if a.Disabled {
		m[AttrDisabled] = true
	}
	return m
}

// MarshalJSON encodes the attributes as a flat object.
func (a Attributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Map())
}

// UnmarshalJSON decodes a flat object produced by MarshalJSON.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	*a = NewAttributes(fields)
	return nil
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "on":
			return true, true
		case "no", "off":
			return false, true
		}
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	case int:
		return b != 0, true
	}
	return false, false
}
