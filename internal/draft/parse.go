// Package draft turns free-form model output into recipe drafts. Data moves
// through distinct stages: Raw text, a Parsed value, a reconciled Draft, and
// finally a model.Recipe once it passes model.Validate.
package draft

import (
	"encoding/json"
	"strings"
)

// Raw is model output exactly as received.
type Raw string

// Parsed is the result of reading Raw as JSON. It is either a decoded
// value or the unparseable sentinel.
type Parsed struct {
	value any
	ok    bool
}

// Unparseable reports whether no JSON could be recovered from the text.
func (p Parsed) Unparseable() bool {
	return !p.ok
}

// Parse reads r as JSON. Strict decoding is tried first, then the span from
// the first '{' to the last '}' (or '[' to ']'). It never fails; text with
// no recoverable JSON yields the unparseable sentinel.
func (r Raw) Parse() Parsed {
	text := strings.TrimSpace(string(r))
	if text == "" {
		return Parsed{}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		return Parsed{value: v, ok: true}
	}

	span, found := outermostSpan(text)
	if !found {
		return Parsed{}
	}
	if err := json.Unmarshal([]byte(span), &v); err == nil {
		return Parsed{value: v, ok: true}
	}
	return Parsed{}
}

// outermostSpan finds the leftmost opener that has a matching closer later
// in the text and returns everything up to the last such closer.
func outermostSpan(text string) (string, bool) {
	lastObj := strings.LastIndexByte(text, '}')
	lastArr := strings.LastIndexByte(text, ']')
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if lastObj > i {
				return text[i : lastObj+1], true
			}
		case '[':
			if lastArr > i {
				return text[i : lastArr+1], true
			}
		}
	}
	return "", false
}

// listKeys are wrapper keys models use when forced to answer with a single
// JSON object but asked for several recipes.
var listKeys = []string{"recipes", "suggestions", "data", "results"}

// Objects returns the JSON objects carried by p: the object itself, the
// objects of a top-level array, or the objects of a wrapped list.
func (p Parsed) Objects() []map[string]any {
	if !p.ok {
		return nil
	}
	switch v := p.value.(type) {
	case map[string]any:
		for _, key := range listKeys {
			if inner, ok := v[key].([]any); ok {
				return objectsOf(inner)
			}
		}
		return []map[string]any{v}
	case []any:
		return objectsOf(v)
	}
	return nil
}

// Object returns the first object carried by p.
func (p Parsed) Object() (map[string]any, bool) {
	objs := p.Objects()
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

func objectsOf(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
