// Package iojson writes machine-readable JSON for the --json output modes.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the JSON shape of a command failure.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// fallbackError hand-builds the error document when obj itself could not be
// encoded. json.Marshal on plain strings cannot fail.
func fallbackError(msg string, encErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(encErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// Write encodes obj as indented JSON followed by a newline. An encoding
// failure is reported to ew as an Error document.
func Write(w, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		if _, werr := fmt.Fprintln(ew, fallbackError("encode output", err)); werr != nil {
			return werr
		}
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteError writes msg and data to w as an Error document.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	return Write(w, w, Error{Message: msg, Data: data})
}
