package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitDetail_Decode(t *testing.T) {
	raw := `{
		"sha": "a1bf367b3af680b1182cc52bb77ba095764a11f9",
		"author": {"avatar_url": "https://example.com/a.png", "login": "octo"},
		"commit": {
			"author": {"name": "Octo Cat", "date": "2021-03-04T05:06:07Z"},
			"committer": {"name": "Bot"},
			"message": "Fix parser\n\nLonger explanation\nsecond line"
		},
		"parents": [{"sha": "p1"}, {"sha": "p2"}]
	}`

	var c CommitDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "octo", c.Author.Login)
	assert.Equal(t, "Octo Cat", c.Commit.Author.Name)
	assert.Equal(t, 2021, c.Commit.Author.Date.Year())
	assert.Equal(t, "Bot", c.Commit.Committer.Name)
	assert.True(t, c.Commit.Committer.Date.IsZero())
	assert.Equal(t, "Fix parser", c.Title())
	assert.Equal(t, "\nLonger explanation\nsecond line", c.Body())
	assert.Equal(t, []string{"p1", "p2"}, c.ParentSHAs())
}

func TestCommitDetail_EmptyHelpers(t *testing.T) {
	var c CommitDetail
	assert.Equal(t, "", c.Title())
	assert.Equal(t, "", c.Body())
	assert.Empty(t, c.ParentSHAs())
}

func TestFileDiff_MissingPatchAndCollapsed(t *testing.T) {
	var d DiffPayload
	require.NoError(t, json.Unmarshal([]byte(`{"files":[{"filename":"a.go","collapsed":true}]}`), &d))

	require.Len(t, d.Files, 1)
	assert.Equal(t, "", d.Files[0].Patch)
	assert.False(t, d.Files[0].Collapsed)
}

func TestDiffPayload_Clone(t *testing.T) {
	d := &DiffPayload{Files: []FileDiff{{Filename: "a"}}}
	c := d.Clone()
	c.Files[0].Collapsed = true

	assert.False(t, d.Files[0].Collapsed)
	assert.Nil(t, (*DiffPayload)(nil).Clone())
	assert.Nil(t, (&DiffPayload{}).Clone().Files)
}

func TestCommitIdentity_Validate(t *testing.T) {
	assert.NoError(t, CommitIdentity{"o", "r", "abc"}.Validate())
	assert.Error(t, CommitIdentity{"", "r", "abc"}.Validate())
	assert.Error(t, CommitIdentity{"o", "r/x", "abc"}.Validate())
	assert.Error(t, CommitIdentity{"o", "..", "abc"}.Validate())
}

func TestCommitIdentity_Paths(t *testing.T) {
	id := CommitIdentity{"golemfactory", "clay", "a1bf367b3af680b1182cc52bb77ba095764a11f9"}
	assert.Equal(t, "a1bf367", id.ShortSHA())
	assert.Equal(t, "golemfactory/clay@a1bf367", id.String())
	assert.Equal(t, "/repositories/golemfactory/clay/commit/a1bf367b3af680b1182cc52bb77ba095764a11f9", id.PagePath())
	assert.Equal(t, "abc", CommitIdentity{CommitSHA: "abc"}.ShortSHA())
}
