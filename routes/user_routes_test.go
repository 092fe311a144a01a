package routes

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

func signupBody(email string) gin.H {
	return gin.H{
		"name":              "Asha Patil",
		"email":             email,
		"password":          "secret123",
		"preferredLanguage": "mr",
		"address": gin.H{
			"village":  "Wadgaon",
			"district": "Pune",
			"state":    "Maharashtra",
		},
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/signup", signupBody("asha@example.com"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "mr", user["preferredLanguage"])
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/signup", signupBody("Asha@Example.com"), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["message"])
	assert.EqualValues(t, 1, env.count(&models.User{}))
}

func TestSignupValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	body := signupBody("short@example.com")
	body["password"] = "123"
	w := env.do(http.MethodPost, "/signup", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, env.count(&models.User{}))
}

func TestLoginThenVerify(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/signup", signupBody("asha@example.com"), "").Code)

	w := env.do(http.MethodPost, "/login", gin.H{"email": "asha@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), utils.UserCookie+"=")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "asha@example.com").First(&user).Error)

	w = env.do(http.MethodPost, "/", gin.H{"tok": token}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["status"])
	assert.EqualValues(t, user.ID, body["user"])
	assert.Equal(t, "Asha Patil", body["name"])
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedAdmin("root@example.com", models.AdminRoleSuperAdmin)

	for name, tok := range map[string]string{
		"garbage":     "not-a-token",
		"admin token": adminToken,
		"missing":     "",
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/", gin.H{"tok": tok}, "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, false, decode(t, w)["status"])
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/signup", signupBody("asha@example.com"), "").Code)

	for _, body := range []gin.H{
		{"email": "asha@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		w := env.do(http.MethodPost, "/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode(t, w)["message"])
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, utils.UserCookie+"=;"), cookie)
}

func TestProfileUpdateRenamesForumRows(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser("asha", "asha@example.com", models.Address{})
	postID := env.createPost(token, "Onion prices")

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/user/profile", nil, "").Code)

	w := env.do(http.MethodPut, "/api/user/profile", gin.H{
		"name":    "Asha P",
		"address": gin.H{"district": "Nashik", "state": "Maharashtra"},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/user/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Asha P", profile["name"])
	assert.Equal(t, "Nashik", profile["address"].(map[string]interface{})["district"])

	var post models.Post
	require.NoError(t, env.db.First(&post, postID).Error)
	assert.Equal(t, "Asha P", post.CreatorName)
	assert.Equal(t, user.ID, post.CreatorID)
}

func TestValidateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("asha", "asha@example.com", models.Address{})

	assert.Equal(t, true, decode(t, env.do(http.MethodGet, "/api/validation/email/asha@example.com", nil, ""))["exists"])
	assert.Equal(t, false, decode(t, env.do(http.MethodGet, "/api/validation/email/ravi@example.com", nil, ""))["exists"])
}

func TestGoogleLoginDisabled(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/auth/google", gin.H{"code": "abc"}, "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
