package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/codeshape/internal/indexer"
	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
)

func dumpFixture() map[string]indexer.FileRecord {
	r := extraction.NewRecord()
	r.TypeDeclarations = []string{"Dog"}
	r.Imports = []string{"java.util.List"}
	return map[string]indexer.FileRecord{
		"src/Dog.java": {Language: extraction.LanguageJava, Record: r},
	}
}

func TestWriteDump_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, dumpFixture(), "json"))

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	entry := decoded["src/Dog.java"]
	require.NotNil(t, entry)
	assert.Equal(t, "java", entry["language"])
	assert.Equal(t, []interface{}{"Dog"}, entry["type_declarations"])
	assert.Equal(t, []interface{}{"java.util.List"}, entry["imports"])
}

func TestWriteDump_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeDump(&buf, dumpFixture(), "yaml"))

	var decoded map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	entry := decoded["src/Dog.java"]
	require.NotNil(t, entry)
	assert.Equal(t, "java", entry["language"])
	assert.Equal(t, []interface{}{"Dog"}, entry["type_declarations"])
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "7", formatNumber(7))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}

func TestSourceArg(t *testing.T) {
	t.Parallel()

	got, err := sourceArg([]string{"project.zip"})
	require.NoError(t, err)
	assert.Equal(t, "project.zip", got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = sourceArg(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(wd), filepath.Clean(got))
}
