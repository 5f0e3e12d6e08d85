package draft

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingInt = regexp.MustCompile(`-?\d+(\.\d+)?`)

// field returns the first present value among keys.
func field(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys ...string) string {
	v, ok := field(obj, keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64, bool:
		return fmt.Sprint(s)
	}
	return ""
}

// intField reads a number or the first number inside a string such as
// "25 minutes". ok is false when nothing numeric was found.
func intField(obj map[string]any, keys ...string) (int, bool) {
	v, present := field(obj, keys...)
	if !present {
		return 0, false
	}
	return toInt(v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Round(n)), true
	case string:
		m := leadingInt.FindString(n)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

func floatField(obj map[string]any, keys ...string) float64 {
	v, ok := field(obj, keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if m := leadingInt.FindString(n); m != "" {
			f, _ := strconv.ParseFloat(m, 64)
			return f
		}
	}
	return 0
}

func boolField(obj map[string]any, keys ...string) (bool, bool) {
	v, ok := field(obj, keys...)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

// listField accepts either a JSON array or a comma-joined string and
// returns trimmed, non-empty entries in order.
func listField(obj map[string]any, keys ...string) []string {
	v, ok := field(obj, keys...)
	if !ok {
		return []string{}
	}
	var parts []string
	switch l := v.(type) {
	case string:
		parts = strings.Split(l, ",")
	case []any:
		for _, item := range l {
			parts = append(parts, itemText(item))
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// itemText flattens a list element. Objects contribute their most
// descriptive text field.
func itemText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	case map[string]any:
		if name := stringField(v, "name", "item"); name != "" {
			if qty := stringField(v, "quantity", "amount"); qty != "" {
				return qty + " " + name
			}
		}
		return stringField(v, "description", "instruction", "step", "text", "name", "item")
	}
	return ""
}
