package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errorOutput is the machine-readable error shape
type errorOutput struct {
	Type    string `json:"type"` // Always "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

// outputErrorCommon normalizes error emission across commands, respecting
// json vs text formats so downstream tooling always gets a parseable
// failure.
func outputErrorCommon(globals *Globals, code, message string) error {
	if globals != nil && globals.Format == "json" {
		json.NewEncoder(globals.Stdout).Encode(errorOutput{
			Type: "error", Code: code, Message: message,
		})
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	}
	return errors.New(message)
}

// emitWarning respects format/quiet
func emitWarning(globals *Globals, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "json" {
		json.NewEncoder(globals.Stdout).Encode(map[string]string{
			"type": "warning", "message": msg,
		})
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}
