// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package retryguard

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Separators keep ("ab","c") and ("a","bc") from hashing alike.
const (
	domainSeparator = 0x00
	keySeparator    = 0x1d
	valueSeparator  = 0x1f
	fieldSeparator  = 0x1e
)

// Fingerprint hashes a set of submitted fields under a domain (method and path).
//
// Neither field order nor value order within a field affects the result.
func Fingerprint(domain string, fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hasher := sha256.New()
	hasher.Write([]byte(domain))
	hasher.Write([]byte{domainSeparator})

	for _, key := range keys {
		values := append([]string(nil), fields[key]...)
		sort.Strings(values)

		hasher.Write([]byte(key))
		hasher.Write([]byte{keySeparator})
		for _, value := range values {
			hasher.Write([]byte(value))
			hasher.Write([]byte{valueSeparator})
		}
		hasher.Write([]byte{fieldSeparator})
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// FieldsFromJSON flattens a JSON object body into form-like fields.
//
// Strings keep their raw value, arrays contribute one value per element and
// everything else is re-encoded as compact JSON (object keys sorted). An empty
// body yields no fields.
func FieldsFromJSON(body []byte) (map[string][]string, error) {
	fields := make(map[string][]string)
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	var object map[string]any
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, fmt.Errorf("retryguard: body is not a JSON object: %w", err)
	}

	for key, raw := range object {
		if items, ok := raw.([]any); ok {
			for _, item := range items {
				fields[key] = append(fields[key], canonical(item))
			}
			if len(items) == 0 {
				fields[key] = []string{}
			}
			continue
		}
		fields[key] = []string{canonical(raw)}
	}

	return fields, nil
}

func canonical(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}
