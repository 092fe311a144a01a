package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/middleware"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/utils"
)

const recentActivityLimit = 10

type AdminController struct {
	DB            *gorm.DB
	Tokens        *utils.TokenIssuer
	History       store.HistoryStore
	SecureCookies bool
}

type AdminSignupRequest struct {
	FullName    string   `json:"fullName" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Role        string   `json:"role" binding:"omitempty,oneof=admin superadmin"`
	Permissions []string `json:"permissions"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type DashboardStats struct {
	Users          int64                `json:"users"`
	Posts          int64                `json:"posts"`
	Comments       int64                `json:"comments"`
	Trends         int64                `json:"trends"`
	Admins         int64                `json:"admins"`
	YieldRecords   int64                `json:"yieldRecords"`
	FertRecords    int64                `json:"fertilizerRecords"`
	CropRecords    int64                `json:"cropRecords"`
	RecentActivity []models.ActivityLog `json:"recentActivity"`
}

func NewAdminController(db *gorm.DB, tokens *utils.TokenIssuer, history store.HistoryStore, secureCookies bool) *AdminController {
	return &AdminController{DB: db, Tokens: tokens, History: history, SecureCookies: secureCookies}
}

// CreateAdmin hashes the password and inserts the admin row. It is shared
// with the "admin create" command.
func CreateAdmin(db *gorm.DB, req *AdminSignupRequest) (*models.Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := models.Admin{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       normalizeEmail(req.Email),
		Password:    string(hashed),
		Role:        req.Role,
		Permissions: req.Permissions,
	}
	if admin.Role == "" {
		admin.Role = models.AdminRoleAdmin
	}
	if len(admin.Permissions) == 0 {
		admin.Permissions = models.DefaultAdminPermissions
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// Signup bootstraps the first admin, who becomes superadmin. After that only
// a signed-in superadmin may create admins.
func (ac *AdminController) Signup(c *gin.Context) {
	var req AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	claims := utils.GetUser(c)

	var admin *models.Admin
	err := ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		// concurrent bootstrap signups must not both see an empty table
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE admins IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}
		var existing int64
		if err := tx.Model(&models.Admin{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			req.Role = models.AdminRoleSuperAdmin
		} else {
			var caller models.Admin
			if claims == nil || tx.First(&caller, claims.UserID).Error != nil || caller.Role != models.AdminRoleSuperAdmin {
				return ErrForbidden
			}
		}
		var err error
		admin, err = CreateAdmin(tx, &req)
		return err
	})
	switch {
	case errors.Is(err, ErrForbidden):
		respondMessage(c, http.StatusForbidden, "Only a superadmin can create admins")
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondMessage(c, http.StatusConflict, "Admin already exists")
		return
	case err != nil:
		logger.L.Error("create admin", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Admin signup failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin created successfully", "admin": admin})
}

func (ac *AdminController) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var admin models.Admin
	if err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&admin).Error; err != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		respondMessage(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := ac.Tokens.Issue(admin.ID, utils.RoleAdmin)
	if err != nil {
		logger.L.Error("issue admin token", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Could not generate token")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AdminCookie, token, int(ac.Tokens.TTL().Seconds()), "/", "", ac.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "admin": admin})
}

func (ac *AdminController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AdminCookie, "", -1, "/", "", ac.SecureCookies, true)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (ac *AdminController) Verify(c *gin.Context) {
	var input struct {
		Tok string `json:"tok"`
	}
	_ = c.ShouldBindJSON(&input)

	token := input.Tok
	if token == "" {
		token = middleware.TokenFromRequest(c, utils.AdminCookie)
	}
	claims, err := ac.Tokens.Parse(token)
	if token == "" || err != nil || claims.Role != utils.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}

	var admin models.Admin
	if err := ac.DB.WithContext(c.Request.Context()).First(&admin, claims.UserID).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "admin": admin})
}

// GetStats gathers the dashboard counters concurrently.
func (ac *AdminController) GetStats(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())
	db := ac.DB.WithContext(ctx)
	var stats DashboardStats

	count := func(model interface{}, dst *int64) {
		g.Go(func() error {
			return db.Model(model).Count(dst).Error
		})
	}
	count(&models.User{}, &stats.Users)
	count(&models.Post{}, &stats.Posts)
	count(&models.Comment{}, &stats.Comments)
	count(&models.Trend{}, &stats.Trends)
	count(&models.Admin{}, &stats.Admins)

	history := func(kind string, dst *int64) {
		g.Go(func() error {
			n, err := ac.History.Count(ctx, kind)
			*dst = n
			return err
		})
	}
	history(store.KindYield, &stats.YieldRecords)
	history(store.KindFertilizer, &stats.FertRecords)
	history(store.KindCrop, &stats.CropRecords)

	g.Go(func() error {
		stats.RecentActivity = []models.ActivityLog{}
		return db.Order("created_at DESC").Order("id DESC").Limit(recentActivityLimit).Find(&stats.RecentActivity).Error
	})

	if err := g.Wait(); err != nil {
		logger.L.Error("dashboard stats", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ac *AdminController) GetUsers(c *gin.Context) {
	page, pageSize, ok := utils.Pagination(c)
	if !ok {
		page, pageSize = 1, 20
	}
	db := ac.DB.WithContext(c.Request.Context())

	q := db.Model(&models.User{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		logger.L.Error("count users", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	users := []models.User{}
	if err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		logger.L.Error("list users", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       users,
		Pagination: newPaginationMeta(page, pageSize, total),
	})
}

// DeleteUser removes the user with everything they wrote: their posts (and
// the comments and likes on them), their comments and their likes elsewhere.
func (ac *AdminController) DeleteUser(c *gin.Context) {
	userID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	claims := utils.GetUser(c)

	err := ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("creator_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, id := range postIDs {
			if err := deletePostCascade(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Where("creator_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityUserDeleted, userID)
	})
	if err != nil {
		respondForumError(c, err, "User", "delete")
		return
	}
	respondMessage(c, http.StatusOK, "User deleted successfully")
}

func (ac *AdminController) GetPosts(c *gin.Context) {
	page, pageSize, ok := utils.Pagination(c)
	if !ok {
		page, pageSize = 1, 20
	}
	ctx := c.Request.Context()

	var total int64
	if err := ac.DB.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		logger.L.Error("count posts", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	views, err := loadPostViews(ctx, ac.DB, func(q *gorm.DB) *gorm.DB {
		return q.Offset((page - 1) * pageSize).Limit(pageSize)
	})
	if err != nil {
		logger.L.Error("list posts", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       views,
		Pagination: newPaginationMeta(page, pageSize, total),
	})
}

func (ac *AdminController) DeletePost(c *gin.Context) {
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	claims := utils.GetUser(c)

	err := ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := findPost(tx, postID); err != nil {
			return err
		}
		if err := deletePostCascade(tx, postID); err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityPostDeleted, postID)
	})
	if err != nil {
		respondForumError(c, err, "Post", "delete")
		return
	}
	respondMessage(c, http.StatusOK, "Post deleted successfully")
}
