package keymap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := New()

	tests := []struct {
		event    keys.Event
		expected actions.Action
	}{
		{keys.Named(keys.KeyTab), actions.CycleSuggestion(actions.Forward)},
		{keys.Named(keys.KeyTab).With(keys.ModShift), actions.CycleSuggestion(actions.Backward)},
		{keys.Ctrl('w'), actions.Delete(actions.Backward, actions.Word)},
		{keys.Ctrl('j'), actions.Delete(actions.Backward, actions.Word)},
		{keys.Ctrl('k'), actions.Delete(actions.Forward, actions.Word)},
		{keys.Ctrl('u'), actions.Delete(actions.Backward, actions.Line)},
		{keys.Ctrl('h'), actions.Delete(actions.Backward, actions.Line)},
		{keys.Ctrl('l'), actions.Delete(actions.Forward, actions.Line)},
		{keys.Named(keys.KeyEnter), actions.Submit()},
		{keys.Ctrl('c'), actions.Cancel()},
		{keys.Named(keys.KeyEscape), actions.Cancel()},
		{keys.Named(keys.KeyLeft), actions.MoveCursor(actions.Backward, actions.Char)},
		{keys.Named(keys.KeyRight), actions.MoveCursor(actions.Forward, actions.Char)},
		{keys.Named(keys.KeyUp), actions.HistoryMove(actions.Backward)},
		{keys.Named(keys.KeyDown), actions.HistoryMove(actions.Forward)},
		{keys.Named(keys.KeyBackspace), actions.Delete(actions.Backward, actions.Char)},
		{keys.Named(keys.KeyHome), actions.MoveCursor(actions.Backward, actions.Line)},
		{keys.Alt('f'), actions.MoveCursor(actions.Forward, actions.Word)},
		{keys.Rune('a'), actions.InsertChar("a")},
		{keys.Rune('Z').With(keys.ModShift), actions.InsertChar("Z")},
		{keys.Rune('語'), actions.InsertChar("語")},
		{keys.Ctrl('q'), actions.Noop()},
		{keys.Alt('x'), actions.Noop()},
		{keys.Named(keys.KeyF5), actions.Noop()},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Resolve(tt.event))
		})
	}
}

func TestOverridesShadowDefaults(t *testing.T) {
	table := New()
	table.Set(keys.Named(keys.KeyTab), actions.Submit())
	table.Set(keys.Rune('q'), actions.Cancel())

	a, src := table.ResolveWithSource(keys.Named(keys.KeyTab))
	assert.Equal(t, actions.Submit(), a)
	assert.Equal(t, SourceOverride, src)
	assert.Equal(t, actions.Cancel(), table.Resolve(keys.Rune('q')))

	_, src = table.ResolveWithSource(keys.Ctrl('w'))
	assert.Equal(t, SourceDefault, src)
	_, src = table.ResolveWithSource(keys.Rune('x'))
	assert.Equal(t, SourceFallback, src)

	table.Set(keys.Named(keys.KeyTab), actions.Noop())
	assert.Equal(t, actions.Noop(), table.Resolve(keys.Named(keys.KeyTab)), "later set replaces")
	assert.Equal(t, 2, table.Len())

	assert.True(t, table.Remove(keys.Named(keys.KeyTab)))
	assert.False(t, table.Remove(keys.Named(keys.KeyTab)))
	assert.Equal(t, actions.CycleSuggestion(actions.Forward), table.Resolve(keys.Named(keys.KeyTab)))
}

func TestMergeReplaceClone(t *testing.T) {
	base := New()
	base.Set(keys.Ctrl('x'), actions.Cancel())
	base.Set(keys.Ctrl('y'), actions.Custom("yank"))

	other := New()
	other.Set(keys.Ctrl('x'), actions.Submit())
	other.Set(keys.Ctrl('z'), actions.Noop())

	merged := base.Clone()
	merged.Merge(other)
	assert.Equal(t, 3, merged.Len())
	assert.Equal(t, actions.Submit(), merged.Resolve(keys.Ctrl('x')))
	assert.Equal(t, actions.Cancel(), base.Resolve(keys.Ctrl('x')), "clone is independent")

	merged.Replace(other)
	assert.Equal(t, other.Overrides(), merged.Overrides())

	copyMap := merged.Overrides()
	copyMap[keys.Ctrl('o')] = actions.Submit()
	_, ok := merged.Lookup(keys.Ctrl('o'))
	assert.False(t, ok, "Overrides returns a copy")
}

func TestEffective(t *testing.T) {
	table := New()
	table.Set(keys.Ctrl('w'), actions.Delete(actions.Backward, actions.Line))

	rows := table.Effective()
	require.NotEmpty(t, rows)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Event.String(), rows[i].Event.String())
	}

	var found bool
	for _, row := range rows {
		if row.Event == keys.Ctrl('w') {
			found = true
			assert.Equal(t, SourceOverride, row.Source)
			assert.Equal(t, actions.Delete(actions.Backward, actions.Line), row.Action)
		}
	}
	assert.True(t, found)
	assert.Len(t, rows, len(Defaults()))
}

func sampleTable() *Table {
	table := New()
	table.Set(keys.Named(keys.KeyTab), actions.Submit())
	table.Set(keys.Ctrl('w'), actions.Delete(actions.Backward, actions.Line))
	table.Set(keys.Alt('.'), actions.InsertChar("…"))
	table.Set(keys.Rune(' '), actions.Complete(actions.Word))
	table.Set(keys.Rune('+'), actions.Noop())
	table.Set(keys.Ctrl('v'), actions.Custom("paste"))
	table.Set(keys.Named(keys.KeyUp).With(keys.ModAlt), actions.HistoryMove(actions.Backward))
	return table
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSON, YAML} {
		t.Run(codec.Name(), func(t *testing.T) {
			table := sampleTable()

			data, err := table.Export(codec)
			require.NoError(t, err)

			imported, err := Import(data, codec)
			require.NoError(t, err)
			assert.Equal(t, table.Overrides(), imported.Overrides())

			again, err := imported.Export(codec)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again), "export is deterministic")
		})
	}
}

func TestSetNormalisesForExport(t *testing.T) {
	table := New()
	table.Set(keys.Event{Key: keys.KeyRune, Rune: 'A', Mod: keys.ModCtrl}, actions.Submit())
	table.Set(keys.Ctrl('g'), actions.Custom(" go "))

	assert.Equal(t, actions.Submit(), table.Resolve(keys.Ctrl('a')))
	assert.Equal(t, actions.Submit(), table.Resolve(keys.Event{Key: keys.KeyRune, Rune: 'A', Mod: keys.ModCtrl}))

	for _, codec := range []Codec{JSON, YAML} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := table.Export(codec)
			require.NoError(t, err)

			imported, err := Import(data, codec)
			require.NoError(t, err)
			assert.Equal(t, table.Overrides(), imported.Overrides())
			assert.Equal(t, actions.Submit(), imported.Resolve(keys.Ctrl('a')))
			assert.Equal(t, actions.Custom("go"), imported.Resolve(keys.Ctrl('g')))
		})
	}
}

func TestExportRejectsBindingsWithoutTextForm(t *testing.T) {
	tests := []struct {
		name   string
		action actions.Action
	}{
		{"empty insert", actions.InsertChar("")},
		{"empty custom name", actions.Custom("  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := New()
			table.Set(keys.Ctrl('x'), tt.action)
			for _, codec := range []Codec{JSON, YAML} {
				_, err := table.Export(codec)
				assert.Error(t, err, codec.Name())
			}
		})
	}
}

func TestExportEmpty(t *testing.T) {
	data, err := New().Export(JSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"bindings":[]}`, string(data))

	imported, err := Import(data, JSON)
	require.NoError(t, err)
	assert.Equal(t, 0, imported.Len())
}

func TestImportDocuments(t *testing.T) {
	yamlDoc := `
version: 1
bindings:
  - key: tab
    action: submit
  - key: ctrl+w
    action: delete(backward,line)
  - key: tab
    action: cancel
`
	table, err := Import([]byte(yamlDoc), YAML)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, actions.Cancel(), table.Resolve(keys.Named(keys.KeyTab)), "last duplicate wins")

	table, err = Import([]byte(`{"bindings":[{"key":"ctrl+k","action":"noop"}]}`), JSON)
	require.NoError(t, err, "missing version reads as current")
	assert.Equal(t, actions.Noop(), table.Resolve(keys.Ctrl('k')))
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		data  string
		index int
	}{
		{"malformed json", JSON, `{"bindings": [`, -1},
		{"unknown field", JSON, `{"version":1,"keys":[]}`, -1},
		{"future version", JSON, `{"version":7,"bindings":[]}`, -1},
		{"bad key", JSON, `{"bindings":[{"key":"ctrl+k","action":"noop"},{"key":"hyper+q","action":"noop"}]}`, 1},
		{"bad action", YAML, "bindings:\n  - key: ctrl+k\n    action: explode\n", 0},
		{"malformed yaml", YAML, "bindings: [\n", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.data), tt.codec)
			require.Error(t, err)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.index, decodeErr.Index)
			assert.Equal(t, tt.codec.Name(), decodeErr.Codec)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestLoadIsAtomic(t *testing.T) {
	table := sampleTable()
	before := table.Overrides()

	err := table.Load([]byte(`{"bindings":[{"key":"ctrl+a","action":"submit"},{"key":"ctrl+b","action":"??"}]}`), JSON)
	require.Error(t, err)
	assert.Equal(t, before, table.Overrides())

	err = table.Load([]byte(`{"version":1,"bindings":[{"key":"ctrl+a","action":"submit"}]}`), JSON)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, actions.Submit(), table.Resolve(keys.Ctrl('a')))
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bindings.json", "nested/bindings.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			table := sampleTable()
			require.NoError(t, table.SaveFile(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, table.Overrides(), loaded.Overrides())
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCodecSelection(t *testing.T) {
	assert.Equal(t, "json", CodecFor("x/KEYS.JSON").Name())
	assert.Equal(t, "yaml", CodecFor("keys.yml").Name())
	assert.Equal(t, "yaml", CodecFor("keys").Name())

	c, err := CodecByName("YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Name())
	_, err = CodecByName("toml")
	assert.Error(t, err)
}
