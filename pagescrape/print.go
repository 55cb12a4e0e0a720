package pagescrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Print writes entries category by category:
//
//	Data for <url>:
//	<Category>: <value as JSON>
//
// or "No data available" for failed URLs.
func Print(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "Data for %s:\n", e.URL); err != nil {
			return err
		}
		if e.Result == nil {
			if _, err := fmt.Fprintln(w, "No data available"); err != nil {
				return err
			}
			continue
		}
		for _, c := range e.Result.Categories() {
			v, err := compactJSON(c.Value)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "%s: %s\n", c.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintJSON writes the entries as one indented JSON array.
func PrintJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
