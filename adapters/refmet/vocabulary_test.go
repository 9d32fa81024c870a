package refmet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipidflow/domain/core"
	"lipidflow/domain/standardize"
)

func writeVocab(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refmet.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesEntries(t *testing.T) {
	path := writeVocab(t,
		"Input name\tStandardized name\tRefMet_ID\n"+
			"pc 16:0/18:1\tPC(16:0/18:1)\tRM0001\n"+
			"tag 54:3\tTAG(54:3)\tRM0002\n")

	vocab, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, vocab.Len())

	id, ok := vocab.Lookup(standardize.Canonicalize("PC(16:0/18:1)"))
	require.True(t, ok)
	assert.Equal(t, "RM0001", id)
}

func TestLoadSkipsDashAndBlankRows(t *testing.T) {
	path := writeVocab(t,
		"Standardized name\tRefMet_ID\n"+
			"PC(16:0/18:1)\tRM0001\n"+
			"-\tRM0002\n"+
			"TAG(54:3)\t-\n"+
			"\t\n"+
			"short-row\n")

	vocab, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, vocab.Len())

	_, ok := vocab.Lookup(standardize.Canonicalize("TAG(54:3)"))
	assert.False(t, ok)
}

func TestLoadCanonicalizesKeys(t *testing.T) {
	path := writeVocab(t,
		"Standardized name\tRefMet_ID\n"+
			"pc( 16:0 / 18:1 )\tRM0001\n")

	vocab, err := Load(path)
	require.NoError(t, err)

	id, ok := vocab.Lookup("PC(16:0/18:1)")
	require.True(t, ok)
	assert.Equal(t, "RM0001", id)
}

func TestLoadColumnOrderIndependent(t *testing.T) {
	path := writeVocab(t,
		"RefMet_ID\tFormula\tStandardized name\n"+
			"RM0001\tC42H82NO8P\tPC(16:0/18:1)\n")

	vocab, err := Load(path)
	require.NoError(t, err)

	id, ok := vocab.Lookup("PC(16:0/18:1)")
	require.True(t, ok)
	assert.Equal(t, "RM0001", id)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoadMissingRequiredColumns(t *testing.T) {
	path := writeVocab(t, "Name\tID\nPC(16:0/18:1)\tRM0001\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFormat)
	assert.Contains(t, err.Error(), "Standardized name")
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeVocab(t, "")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFormat)
}

func TestStatic(t *testing.T) {
	vocab := Static(map[string]string{
		"pc 16:0/18:1": "RM0001",
	})

	id, ok := vocab.Lookup("PC(16:0/18:1)")
	require.True(t, ok)
	assert.Equal(t, "RM0001", id)
	assert.Equal(t, 1, vocab.Len())
}
