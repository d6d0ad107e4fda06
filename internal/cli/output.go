package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// ListResponse is the JSON shape of --output --json.
type ListResponse struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

// outputJSON writes a value as formatted JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable line to w.
func outputHuman(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}
