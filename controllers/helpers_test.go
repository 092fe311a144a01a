package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrivista/api-go/utils"
)

func TestParseModelJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain", `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", true},
		{"bare fence", "```\n{\"a\":1}\n```", true},
		{"padded", "  \n{\"a\":1}\n ", true},
		{"truncated", `{"a":`, false},
		{"prose", "Here is your plan", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := parseModelJSON(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, map[string]interface{}{"a": 1.0}, v)
			}
		})
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName(""))
	assert.Equal(t, "Marathi", languageName("MR"))
	assert.Equal(t, "Odia", languageName("Odia"))
}

func TestFileKeys(t *testing.T) {
	user := &utils.UserClaims{UserID: 12, Role: utils.RoleUser}
	admin := &utils.UserClaims{UserID: 12, Role: utils.RoleAdmin}

	key := generateFileKey(ownerSegment(user), PurposeProfile, "Me.PNG")
	assert.True(t, strings.HasPrefix(key, "uploads/profile/user-12/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, PurposeProfile, purposeOf(key))
	assert.NotEqual(t, key, generateFileKey(ownerSegment(user), PurposeProfile, "Me.PNG"))

	assert.True(t, verifyFileOwnership(key, user))
	assert.False(t, verifyFileOwnership(key, admin))
	assert.False(t, verifyFileOwnership(key, &utils.UserClaims{UserID: 13, Role: utils.RoleUser}))
	assert.False(t, verifyFileOwnership("uploads/profile/user-12/../user-13/x.png", user))
	assert.False(t, verifyFileOwnership("other/profile/user-12/x.png", user))
	assert.False(t, verifyFileOwnership("uploads/user-12", user))
	assert.Empty(t, purposeOf("uploads/x"))
}

func TestImageTypes(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/JPG", "image/png", "image/webp"} {
		assert.True(t, isValidImageType(ct), ct)
	}
	for _, ct := range []string{"image/gif", "application/pdf", ""} {
		assert.False(t, isValidImageType(ct), ct)
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := newPaginationMeta(2, 10, 21)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 0, newPaginationMeta(1, 10, 0).TotalPages)
}
