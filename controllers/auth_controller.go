package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/middleware"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

type AuthController struct {
	DB            *gorm.DB
	Tokens        *utils.TokenIssuer
	GoogleConfig  *config.GoogleConfig
	SecureCookies bool
}

type SignupRequest struct {
	Name              string         `json:"name" binding:"required"`
	Email             string         `json:"email" binding:"required,email"`
	Password          string         `json:"password" binding:"required,min=6"`
	Address           models.Address `json:"address"`
	PreferredLanguage string         `json:"preferredLanguage"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
	AccessToken string `json:"access_token"`
}

type ProfileUpdateRequest struct {
	Name              *string         `json:"name"`
	Address           *models.Address `json:"address"`
	PreferredLanguage *string         `json:"preferredLanguage"`
	ProfilePhoto      *string         `json:"profilePhoto"`
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenIssuer, google *config.GoogleConfig, secureCookies bool) *AuthController {
	return &AuthController{
		DB:            db,
		Tokens:        tokens,
		GoogleConfig:  google,
		SecureCookies: secureCookies,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ac *AuthController) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", ac.SecureCookies, true)
}

func (ac *AuthController) issueSession(c *gin.Context, user *models.User) (string, bool) {
	token, err := ac.Tokens.Issue(user.ID, utils.RoleUser)
	if err != nil {
		logger.L.Error("issue token", zap.Uint("user", user.ID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Could not generate token")
		return "", false
	}
	ac.setCookie(c, utils.UserCookie, token, int(ac.Tokens.TTL().Seconds()))
	return token, true
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	email := normalizeEmail(input.Email)
	ctx := c.Request.Context()

	var count int64
	if err := ac.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		logger.L.Error("signup lookup", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Signup failed")
		return
	}
	if count > 0 {
		respondMessage(c, http.StatusConflict, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, "Could not hash password")
		return
	}
	hashed := string(hashedPassword)

	user := models.User{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		Password:          &hashed,
		Address:           input.Address,
		PreferredLanguage: input.PreferredLanguage,
		Provider:          "email",
	}
	if user.PreferredLanguage == "" {
		user.PreferredLanguage = "en"
	}

	if err := ac.DB.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondMessage(c, http.StatusConflict, "User already exists")
			return
		}
		logger.L.Error("create user", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	var user models.User
	err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(input.Email)).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L.Error("login lookup", zap.Error(err))
		}
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.Password == nil || bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)) != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, ok := ac.issueSession(c, &user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Verify answers whether the posted token (or the session cookie) belongs to a live user.
func (ac *AuthController) Verify(c *gin.Context) {
	var input struct {
		Tok string `json:"tok"`
	}
	_ = c.ShouldBindJSON(&input)

	token := input.Tok
	if token == "" {
		token = middleware.TokenFromRequest(c, utils.UserCookie)
	}
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	claims, err := ac.Tokens.Parse(token)
	if err != nil || claims.Role != utils.RoleUser {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	var user models.User
	if err := ac.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"user":   user.ID,
		"name":   user.Name,
		"email":  user.Email,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.setCookie(c, utils.UserCookie, "", -1)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		respondMessage(c, http.StatusNotImplemented, "Google sign-in is not configured")
		return
	}
	var input GoogleLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	var token *oauth2.Token
	switch {
	case input.AccessToken != "":
		if err := ac.GoogleConfig.VerifyAccessToken(ctx, input.AccessToken); err != nil {
			logger.L.Warn("google access token rejected", zap.Error(err))
			respondMessage(c, http.StatusUnauthorized, "Invalid Google access token")
			return
		}
		token = &oauth2.Token{AccessToken: input.AccessToken, TokenType: "Bearer"}
	case input.Code != "":
		exchanged, err := ac.GoogleConfig.ExchangeCode(ctx, input.Code, input.RedirectURI)
		if err != nil {
			logger.L.Warn("google code exchange", zap.Error(err))
			respondMessage(c, http.StatusUnauthorized, "Invalid Google authorization code")
			return
		}
		token = exchanged
	default:
		respondMessage(c, http.StatusBadRequest, "code or access_token is required")
		return
	}

	info, err := ac.GoogleConfig.GetUserInfo(ctx, token)
	if err != nil {
		logger.L.Warn("google user info", zap.Error(err))
		respondMessage(c, http.StatusUnauthorized, "Could not verify Google account")
		return
	}
	// accounts are matched by email, so the address must be proven
	if !info.VerifiedEmail {
		respondMessage(c, http.StatusUnauthorized, "Google account email is not verified")
		return
	}

	user, err := ac.findOrCreateGoogleUser(c, info)
	if err != nil {
		logger.L.Error("google user upsert", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to sign in with Google")
		return
	}

	sessionToken, ok := ac.issueSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   sessionToken,
		"user":    user,
	})
}

func (ac *AuthController) findOrCreateGoogleUser(c *gin.Context, info *config.GoogleUserInfo) (*models.User, error) {
	db := ac.DB.WithContext(c.Request.Context())
	email := normalizeEmail(info.Email)

	var user models.User
	err := db.Where("google_id = ? OR email = ?", info.ID, email).First(&user).Error
	switch {
	case err == nil:
		// link an existing email account on first Google sign-in
		if user.GoogleID == nil {
			user.GoogleID = &info.ID
			if user.ProfilePhoto == "" {
				user.ProfilePhoto = info.Picture
			}
			if err := db.Save(&user).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:              info.Name,
			Email:             email,
			ProfilePhoto:      info.Picture,
			GoogleID:          &info.ID,
			Provider:          "google",
			PreferredLanguage: "en",
		}
		if user.Name == "" {
			user.Name = email
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	default:
		return nil, err
	}
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)

	var user models.User
	if err := ac.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	var input ProfileUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	db := ac.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		respondMessage(c, http.StatusNotFound, "User not found")
		return
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.PreferredLanguage != nil && *input.PreferredLanguage != "" {
		user.PreferredLanguage = *input.PreferredLanguage
	}
	if input.ProfilePhoto != nil {
		user.ProfilePhoto = *input.ProfilePhoto
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		// keep the denormalized author name on forum rows in step
		if input.Name != nil {
			if err := tx.Model(&models.Post{}).Where("creator_id = ?", user.ID).Update("creator_name", user.Name).Error; err != nil {
				return err
			}
			return tx.Model(&models.Comment{}).Where("creator_id = ?", user.ID).Update("creator_name", user.Name).Error
		}
		return nil
	})
	if err != nil {
		logger.L.Error("update profile", zap.Uint("user", user.ID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}
