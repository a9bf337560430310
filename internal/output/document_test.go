package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Skipped bool   `json:"skipped,omitempty"`
}

func TestWriteDocument(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"yaml uses json tags", FormatYAML, "count: 2\nname: Level01_Prop_A\n"},
		{"json is indented", FormatJSON, "{\n  \"name\": \"Level01_Prop_A\",\n  \"count\": 2\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDocument(&buf, tt.format, doc{Name: "Level01_Prop_A", Count: 2}))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteDocument_Table(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDocument(&buf, FormatTable, doc{})
	assert.Error(t, err)
}

func TestRenderSummary_Document(t *testing.T) {
	assert.Equal(t, "Nothing exported", RenderSummary(0, 0, 0))

	s := RenderSummary(2, 1, 0)
	assert.Contains(t, s, "2 exported")
	assert.Contains(t, s, "1 failed")
	assert.NotContains(t, s, "skipped")
}

func TestRenderFileTree_Document(t *testing.T) {
	assert.Empty(t, RenderFileTree("/out", nil))

	tree := RenderFileTree("/out", []string{
		"/out/Level01_Prop_A.obj",
		"/out/props/Level01_Crate.obj",
		"/out/Level01_Chair.obj",
	})
	lines := bytes.Split([]byte(tree), []byte("\n"))
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, string(lines[0]), "/out/")
	assert.Contains(t, string(lines[1]), "props/")
	assert.Contains(t, string(lines[2]), "Level01_Crate.obj")
	assert.Contains(t, string(lines[3]), "Level01_Chair.obj")
	assert.Contains(t, string(lines[4]), "Level01_Prop_A.obj")
}
