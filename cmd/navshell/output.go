package main

import (
	"encoding/json"
	"fmt"
	"os"

	"navshell/internal/navigator/planner"
)

var formatChoices = []string{"json", "ndjson", "text"}

// validateFormat enforces --format's enum, exiting nonzero with a
// suggestion (via the shared planner suggester) on an unrecognized value.
func validateFormat() error {
	for _, f := range formatChoices {
		if format == f {
			return nil
		}
	}
	if s := planner.Suggest(format, formatChoices); s != "" {
		return fmt.Errorf("unknown --format %q (did you mean %q?)", format, s)
	}
	return fmt.Errorf("unknown --format %q, must be one of %v", format, formatChoices)
}

// emit renders v per the --format flag: json (single document), ndjson
// (same document, one line, newline-terminated explicitly), or text via
// the supplied renderer.
func emit(v any, textRender func() string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "ndjson":
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Println(string(b))
		return err
	default:
		fmt.Println(textRender())
		return nil
	}
}
