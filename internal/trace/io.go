package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// jsPrefixes are the assignment forms accepted in front of the JSON body
// of a data.js file.
var jsPrefixes = [][]byte{
	[]byte("var data"),
	[]byte("let data"),
	[]byte("const data"),
	[]byte("data"),
}

// Decode reads a trace either as plain JSON or as the "data = {...}"
// script the standalone visualizer page includes.
func Decode(r io.Reader) (*Trace, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}

	body := stripAssignment(raw)

	var t Trace
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidTrace, err)
	}
	if t.Events == nil {
		t.Events = []Event{}
	}
	return &t, nil
}

func stripAssignment(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	for _, p := range jsPrefixes {
		if !bytes.HasPrefix(body, p) {
			continue
		}
		rest := bytes.TrimSpace(body[len(p):])
		if len(rest) == 0 || rest[0] != '=' {
			continue
		}
		body = bytes.TrimSpace(rest[1:])
		break
	}
	body = bytes.TrimSuffix(body, []byte(";"))
	return bytes.TrimSpace(body)
}

// Load reads and validates a trace file.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading trace %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("loading trace %s: %w", path, err)
	}
	return t, nil
}

// Encode writes the trace as indented JSON.
func (t *Trace) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteJSON writes the trace to path as JSON.
func (t *Trace) WriteJSON(path string) error {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// WriteDataJS writes the trace as a script assigning the global "data"
// object, for pages that load the trace with a <script> tag.
func (t *Trace) WriteDataJS(path string) error {
	var buf bytes.Buffer
	buf.WriteString("data = ")
	if err := t.Encode(&buf); err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace to %s: %w", path, err)
	}
	return nil
}
