package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecodesLegacyFields(t *testing.T) {
	legacy := `{"address":"0xabc","display_title":"x kitty - shell [cba0]","class":"kitty",
		"original_title":"shell","preview_path":null,"icon":"x","workspace":4}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(legacy), &r))
	assert.Equal(t, "x kitty - shell [cba0]", r.DisplayLabel)
	assert.Equal(t, 4, r.OriginWorkspace)
	assert.Empty(t, r.PreviewPath)
}

func TestRecordPrefersCurrentFields(t *testing.T) {
	data := `{"address":"0xabc","display_label":"new","display_title":"old","origin_workspace":2,"workspace":9,"preview_path":"/tmp/p.png"}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(data), &r))
	assert.Equal(t, "new", r.DisplayLabel)
	assert.Equal(t, 2, r.OriginWorkspace)
	assert.Equal(t, "/tmp/p.png", r.PreviewPath)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "I kitty - shell [dcba]", Label("I", "kitty", "shell", "0x1234abcd"))
	assert.Equal(t, "I a - b [x0]", Label("I", "a", "b", "0x"))
}

func TestRecordsHelpers(t *testing.T) {
	rs := Records{{Address: "0x1"}, {Address: "0x2"}, {Address: "0x3"}}
	assert.True(t, rs.Contains("0x2"))
	assert.False(t, rs.Contains("0x9"))
	assert.Equal(t, []string{"0x1", "0x3"}, rs.Without("0x2").Addresses())
	assert.Len(t, rs, 3, "Without must not modify the receiver")
	r, ok := rs.Find("0x3")
	require.True(t, ok)
	assert.Equal(t, "0x3", r.Address)
}

func TestRecordsMatchNormalizedAddresses(t *testing.T) {
	rs := Records{{Address: "0xABC"}, {Address: "def"}}
	r, ok := rs.Find("0xabc")
	require.True(t, ok)
	assert.Equal(t, "0xABC", r.Address)
	assert.True(t, rs.Contains("0xDEF"))
	assert.Equal(t, []string{"def"}, rs.Without("abc").Addresses())
}
