package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
)

var ErrUnexpectedShape = errors.New("unexpected response shape")

// candidates lists the places a payload may sit, most specific first:
// data.<key>, <key>, data, then the body itself.
func candidates(body []byte, key string) []json.RawMessage {
	var out []json.RawMessage

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err == nil {
		if key != "" {
			var data map[string]json.RawMessage
			if raw, ok := top["data"]; ok && json.Unmarshal(raw, &data) == nil {
				if v, ok := data[key]; ok {
					out = append(out, v)
				}
			}
			if v, ok := top[key]; ok {
				out = append(out, v)
			}
		}
		if v, ok := top["data"]; ok {
			out = append(out, v)
		}
	}

	return append(out, body)
}

// decodeList normalizes a list response. A body that holds no list decodes
// to an empty slice.
func decodeList[T any](body []byte, key string) []T {
	for _, c := range candidates(body, key) {
		c = bytes.TrimSpace(c)
		if len(c) == 0 || c[0] != '[' {
			continue
		}
		var out []T
		if err := json.Unmarshal(c, &out); err == nil {
			return out
		}
	}
	slog.Warn("backend list response had no list", "key", key)
	return []T{}
}

// decodeObject normalizes a single-object response into dst.
func decodeObject(body []byte, key string, dst any) error {
	for _, c := range candidates(body, key) {
		c = bytes.TrimSpace(c)
		if len(c) == 0 || c[0] != '{' {
			continue
		}
		if err := json.Unmarshal(c, dst); err == nil {
			return nil
		}
	}
	return ErrUnexpectedShape
}
