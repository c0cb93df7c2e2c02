package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	keyValuePattern   = regexp.MustCompile(`^\s*(\w+)\s*[:=]\s*(.+?)\s*$`)
)

// extractJSONBlock returns the top-level fields of the first fenced JSON
// object in text. ok is false when no block exists or it does not parse.
// Keys are lowercased; later duplicates win.
func extractJSONBlock(text string) (map[string]string, bool) {
	m := fencedJSONPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	fields, err := decodeObject(m[1])
	if err != nil {
		return nil, false
	}
	return fields, true
}

// decodeObject walks a JSON object in document order so duplicate keys
// resolve deterministically. Non-scalar values are ignored.
func decodeObject(raw string) (map[string]string, error) {
	if !json.Valid([]byte(raw)) {
		return nil, errInvalidJSON
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	fields := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		if s, ok := scalarString(value); ok {
			fields[strings.ToLower(key)] = strings.TrimSpace(s)
		}
	}

	return fields, nil
}

func scalarString(raw json.RawMessage) (string, bool) {
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// extractLines collects "key: value" and "key = value" lines.
// Keys are lowercased; later duplicates win.
func extractLines(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		m := keyValuePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	return fields
}
