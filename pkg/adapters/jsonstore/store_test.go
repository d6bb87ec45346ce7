package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framecut/pkg/mocks"
	"github.com/user/framecut/pkg/pipeline"
)

func TestMarshal(t *testing.T) {
	records := []pipeline.CaptionRecord{{
		ID:       "FezVkh_VSzM",
		Title:    "Привіт <світ> & co",
		URL:      "https://www.youtube.com/watch?v=FezVkh_VSzM",
		Captions: "текст",
	}}

	data, err := Marshal(records)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"title": "Привіт <світ> & co"`)
	assert.Contains(t, s, "\n        \"id\": \"FezVkh_VSzM\"")
	assert.Contains(t, s, `"url": "https://www.youtube.com/watch?v=FezVkh_VSzM"`)
	assert.NotContains(t, s, "language", "empty language is omitted")
	assert.True(t, strings.HasSuffix(s, "]\n"))
}

func TestStoreSaveLoad(t *testing.T) {
	fs := mocks.NewFileSystem()
	store := New(fs)

	in := []pipeline.CaptionRecord{{ID: "a", Title: "A", URL: "u", Captions: "c", Language: "a.en"}}
	require.NoError(t, store.Save("out/captions.json", in))

	_, ok := fs.GetFile("out/captions.json")
	require.True(t, ok)

	var out []pipeline.CaptionRecord
	require.NoError(t, store.Load("out/captions.json", &out))
	assert.Equal(t, in, out)
}

func TestStoreErrors(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("read-only") }
	store := New(fs)

	assert.Error(t, store.Save("x.json", []int{1}))
	assert.Error(t, store.Load("missing.json", &[]int{}))

	fs.AddFile("bad.json", []byte("{"))
	assert.Error(t, store.Load("bad.json", &[]int{}))
}

func TestSaveToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "captions.json")

	require.NoError(t, Save(path, map[string]string{"id": "x"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"id\": \"x\"\n}\n", string(data))
}
