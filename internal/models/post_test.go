package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostPatchDistinguishesAbsentNullAndValue(t *testing.T) {
	var patch PostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"X","excerpt":null}`), &patch))

	assert.True(t, patch.Title.Set)
	assert.False(t, patch.Title.Null)
	assert.Equal(t, "X", patch.Title.Value)

	assert.True(t, patch.Excerpt.Set)
	assert.True(t, patch.Excerpt.Null)
	assert.Nil(t, patch.Excerpt.Arg())

	assert.False(t, patch.Content.Set)
	assert.False(t, patch.Status.Set)
	assert.False(t, patch.Slug.Set)
	assert.False(t, patch.Empty())
	assert.NoError(t, patch.Validate())
}

func TestPostPatchEmpty(t *testing.T) {
	var patch PostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"unknown":"field"}`), &patch))
	assert.True(t, patch.Empty())
	assert.NoError(t, patch.Validate())
}

func TestPostPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "status published", body: `{"status":"published"}`},
		{name: "content blocks", body: `{"content":[{"id":"a","type":"quote","data":{}}]}`},
		{name: "null title", body: `{"title":null}`, wantErr: "title must not be empty"},
		{name: "empty slug", body: `{"slug":""}`, wantErr: "slug must not be empty"},
		{name: "null content", body: `{"content":null}`, wantErr: "content must not be null"},
		{name: "bad status", body: `{"status":"deleted"}`, wantErr: "status must be one of: draft published archived"},
		{name: "bad type", body: `{"type":"news"}`, wantErr: "type must be one of: blog collaboration"},
		{name: "bad block", body: `{"content":[{"id":"","type":"quote"}]}`, wantErr: "content[0]: id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch PostPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &patch))

			err := patch.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Value("hello")
	assert.True(t, f.Set)
	assert.Equal(t, "hello", f.Arg())

	n := Null[string]()
	assert.True(t, n.Set)
	assert.True(t, n.Null)
	assert.Nil(t, n.Arg())

	out, err := json.Marshal(struct {
		A Field[int] `json:"a"`
	}{A: Value(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3}`, string(out))
}
