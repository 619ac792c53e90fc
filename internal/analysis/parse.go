package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrUnparsableAnalysis means the model reply was not a JSON object.
var ErrUnparsableAnalysis = errors.New("unparsable analysis")

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	closingFence = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// StripCodeFence removes surrounding whitespace and markdown code fences,
// with or without a language tag, in any combination.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Parse decodes the model reply into a field mapping. Numbers are kept as
// json.Number so integers survive without float rounding.
func Parse(raw string) (Fields, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnparsableAnalysis)
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableAnalysis, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrUnparsableAnalysis)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %s, not an object", ErrUnparsableAnalysis, jsonKind(value))
	}
	return Fields(obj), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
