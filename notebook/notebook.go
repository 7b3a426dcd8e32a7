package notebook

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CellKind identifies the type of a notebook cell.
type CellKind int

const (
	CellCode CellKind = iota
	CellMarkdown
	CellRaw
)

// String returns the nbformat cell_type tag for the kind.
func (k CellKind) String() string {
	switch k {
	case CellCode:
		return "code"
	case CellMarkdown:
		return "markdown"
	case CellRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// OutputKind identifies the type of a code cell output.
type OutputKind int

const (
	OutputStream OutputKind = iota
	OutputDisplayData
	OutputExecuteResult
	OutputError
)

type (
	// MimeEntry is one representation of an output: a media type and its
	// payload as raw bytes. Payloads the notebook stored base64-encoded
	// (PNG, JPEG, PDF) are decoded during parsing.
	MimeEntry struct {
		Type string // MIME type, e.g. "text/plain"
		Data []byte // decoded payload
	}

	// Output is one execution result attached to a code cell. Entries
	// preserve the document order of the MIME bundle.
	Output struct {
		Index   int        // position within the cell's output list
		Kind    OutputKind // stream, display_data, execute_result or error
		Stream  string     // "stdout" or "stderr" for stream outputs
		Entries []MimeEntry
	}

	// Cell is one unit of a notebook. Outputs is non-empty only for code
	// cells.
	Cell struct {
		Index   int      // position within the notebook, 0-based
		Kind    CellKind // determines rendering and whether outputs exist
		Source  string   // joined source lines
		Outputs []Output
	}

	// Notebook is one parsed document. Cells is immutable once loaded; a
	// content change on disk produces a new Notebook, never an in-place
	// mutation.
	Notebook struct {
		Cells      []Cell
		SourcePath string    // host path the document was parsed from
		ModTime    time.Time // host modification time at parse time
	}
)

// Wire shapes for the nbformat 4 JSON schema. Source and text fields may be
// either a single string or an array of lines, so they decode through
// json.RawMessage.
type (
	rawNotebook struct {
		NBFormat      int        `json:"nbformat"`
		NBFormatMinor int        `json:"nbformat_minor"`
		Cells         []rawCell  `json:"cells"`
	}
	rawCell struct {
		CellType string            `json:"cell_type"`
		Source   json.RawMessage   `json:"source"`
		Outputs  []json.RawMessage `json:"outputs"`
	}
	rawOutput struct {
		OutputType string          `json:"output_type"`
		Name       string          `json:"name"`
		Text       json.RawMessage `json:"text"`
		Data       json.RawMessage `json:"data"`
		EName      string          `json:"ename"`
		EValue     string          `json:"evalue"`
		Traceback  []string        `json:"traceback"`
	}
)

// base64Encoded lists the MIME types whose payloads nbformat stores as
// base64 text. Matches nbconvert behavior.
var base64Encoded = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

// Parse decodes the serialized form of a notebook into a Notebook. It fails
// with an error wrapping ErrParse when the bytes are not valid notebook
// JSON, the cell list is missing, or a cell lacks its type tag. Output
// entries whose shape matches no known output variant are skipped, not
// fatal. Parse has no side effects; SourcePath and ModTime are left zero
// for the caller to fill in.
func Parse(data []byte) (*Notebook, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.NBFormat != 0 && raw.NBFormat < 4 {
		return nil, fmt.Errorf("%w: nbformat %d", ErrUnsupportedFormat, raw.NBFormat)
	}
	if raw.Cells == nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, ErrMissingCells)
	}

	nb := &Notebook{Cells: make([]Cell, 0, len(raw.Cells))}
	for i, rc := range raw.Cells {
		cell, err := parseCell(i, rc)
		if err != nil {
			return nil, err
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func parseCell(index int, rc rawCell) (Cell, error) {
	cell := Cell{Index: index}

	switch rc.CellType {
	case "code":
		cell.Kind = CellCode
	case "markdown":
		cell.Kind = CellMarkdown
	case "raw":
		cell.Kind = CellRaw
	case "":
		return cell, fmt.Errorf("%w: cell %d: %w", ErrParse, index, ErrMissingCellType)
	default:
		return cell, fmt.Errorf("%w: cell %d has unknown cell_type %q", ErrParse, index, rc.CellType)
	}

	source, err := joinLines(rc.Source)
	if err != nil {
		return cell, fmt.Errorf("%w: cell %d source: %v", ErrParse, index, err)
	}
	cell.Source = source

	// Outputs only exist on code cells.
	if cell.Kind != CellCode {
		return cell, nil
	}

	for _, ro := range rc.Outputs {
		out, ok := parseOutput(len(cell.Outputs), ro)
		if !ok {
			continue
		}
		cell.Outputs = append(cell.Outputs, out)
	}
	return cell, nil
}

// parseOutput builds one Output from a raw output list entry. Entries whose
// shape matches no known variant report ok == false and are skipped by the
// caller.
func parseOutput(index int, data json.RawMessage) (Output, bool) {
	var ro rawOutput
	if err := json.Unmarshal(data, &ro); err != nil {
		return Output{}, false
	}

	out := Output{Index: index}
	switch ro.OutputType {
	case "stream":
		if ro.Name != "stdout" && ro.Name != "stderr" {
			return Output{}, false
		}
		text, err := joinLines(ro.Text)
		if err != nil {
			return Output{}, false
		}
		out.Kind = OutputStream
		out.Stream = ro.Name
		out.Entries = []MimeEntry{{Type: "text/plain", Data: []byte(text)}}

	case "display_data", "execute_result":
		if ro.OutputType == "display_data" {
			out.Kind = OutputDisplayData
		} else {
			out.Kind = OutputExecuteResult
		}
		entries, err := parseMimeBundle(ro.Data)
		if err != nil {
			return Output{}, false
		}
		out.Entries = entries

	case "error":
		out.Kind = OutputError
		trace := strings.Join(ro.Traceback, "\n")
		if trace == "" {
			trace = ro.EName + ": " + ro.EValue
		}
		out.Entries = []MimeEntry{{Type: "text/plain", Data: []byte(trace)}}

	default:
		return Output{}, false
	}
	return out, true
}

// parseMimeBundle decodes an output's data object preserving the document
// order of its keys, which encoding/json's map type would lose. Entries
// with undecodable base64 payloads are dropped so a malformed payload is
// unreachable rather than served corrupted.
func parseMimeBundle(data json.RawMessage) ([]MimeEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("mime bundle is not an object")
	}

	var entries []MimeEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		mime, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("mime bundle key is not a string")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		payload, err := decodePayload(mime, value)
		if err != nil {
			continue
		}
		entries = append(entries, MimeEntry{Type: mime, Data: payload})
	}
	return entries, nil
}

// decodePayload turns one mime bundle value into raw bytes: strings and
// line arrays are joined, base64-encoded binary types are decoded, and
// structured values (e.g. application/json objects) keep their compact
// JSON form.
func decodePayload(mime string, value json.RawMessage) ([]byte, error) {
	text, err := joinLines(value)
	if err != nil {
		// Not a string or line array; keep the raw JSON value.
		return []byte(value), nil
	}
	if base64Encoded[mime] {
		cleaned := strings.Map(dropASCIISpace, text)
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, err
		}
		return decoded, nil
	}
	return []byte(text), nil
}

func dropASCIISpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}

// joinLines accepts the nbformat convention of storing text either as a
// single string or as an array of lines that carry their own newlines, and
// returns the concatenated text.
func joinLines(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("expected string or string array")
	}
	return strings.Join(lines, ""), nil
}
