package keymap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the binding document format written by Export.
const DocumentVersion = 1

// Document is the serialised form of a table's overrides.
type Document struct {
	Version  int     `json:"version" yaml:"version"`
	Bindings []Entry `json:"bindings" yaml:"bindings"`
}

// Entry is one override in text form, e.g. {"ctrl+w", "delete(backward,word)"}.
type Entry struct {
	Key    string `json:"key" yaml:"key"`
	Action string `json:"action" yaml:"action"`
}

// Codec converts a Document to and from bytes.
type Codec interface {
	Name() string
	Marshal(doc Document) ([]byte, error)
	Unmarshal(data []byte, doc *Document) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(doc)
}

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

// CodecFor picks a codec from a file extension. Unknown extensions use YAML,
// which also accepts JSON input.
func CodecFor(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// CodecByName returns the codec called name ("json", "yaml" or "yml").
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, fmt.Errorf("unknown binding format %q", name)
}

// DecodeError reports a binding document that could not be imported.
// Index is the offending entry, or -1 when the document itself is invalid.
type DecodeError struct {
	Codec string
	Index int
	Key   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode %s bindings: %v", e.Codec, e.Err)
	}
	return fmt.Sprintf("decode %s bindings: entry %d (%s): %v", e.Codec, e.Index, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Document returns the overrides of t as a document sorted by key.
func (t *Table) Document() Document {
	entries := lo.MapToSlice(t.Overrides(), func(ev keys.Event, a actions.Action) Entry {
		return Entry{Key: ev.String(), Action: a.String()}
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return Document{Version: DocumentVersion, Bindings: entries}
}

// Export serialises the overrides of t. It fails if a binding has no text
// form that reads back as the same binding, such as an empty insert.
func (t *Table) Export(codec Codec) ([]byte, error) {
	for ev, a := range t.Overrides() {
		if err := checkEncodable(ev, a); err != nil {
			return nil, fmt.Errorf("encode %s bindings: %w", codec.Name(), err)
		}
	}
	data, err := codec.Marshal(t.Document())
	if err != nil {
		return nil, fmt.Errorf("encode %s bindings: %w", codec.Name(), err)
	}
	return data, nil
}

func checkEncodable(ev keys.Event, a actions.Action) error {
	if parsed, err := keys.Parse(ev.String()); err != nil || parsed != ev {
		return fmt.Errorf("key %q has no document form", ev.String())
	}
	if parsed, err := actions.Parse(a.String()); err != nil || parsed != a {
		return fmt.Errorf("key %s: action %q has no document form", ev, a)
	}
	return nil
}

// Import builds a new table from data. Later entries for the same key win.
// Any failure returns a *DecodeError.
func Import(data []byte, codec Codec) (*Table, error) {
	var doc Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Codec: codec.Name(), Index: -1, Err: err}
	}
	return FromDocument(doc, codec.Name())
}

// FromDocument builds a table from an already decoded document. A missing
// version is read as the current one.
func FromDocument(doc Document, codecName string) (*Table, error) {
	if doc.Version != 0 && doc.Version != DocumentVersion {
		return nil, &DecodeError{Codec: codecName, Index: -1, Err: fmt.Errorf("unsupported version %d", doc.Version)}
	}

	t := New()
	for i, entry := range doc.Bindings {
		ev, err := keys.Parse(entry.Key)
		if err != nil {
			return nil, &DecodeError{Codec: codecName, Index: i, Key: entry.Key, Err: err}
		}
		a, err := actions.Parse(entry.Action)
		if err != nil {
			return nil, &DecodeError{Codec: codecName, Index: i, Key: entry.Key, Err: err}
		}
		t.overrides[ev] = a
	}
	return t, nil
}

// Load replaces the overrides of t with those decoded from data. On error
// t is left unchanged.
func (t *Table) Load(data []byte, codec Codec) error {
	loaded, err := Import(data, codec)
	if err != nil {
		return err
	}
	t.Replace(loaded)
	return nil
}

// LoadFile imports a binding document, choosing the codec by extension.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}
	return Import(data, CodecFor(path))
}

// SaveFile exports the overrides of t, choosing the codec by extension.
func (t *Table) SaveFile(path string) error {
	data, err := t.Export(CodecFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create bindings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bindings file: %w", err)
	}
	return nil
}
