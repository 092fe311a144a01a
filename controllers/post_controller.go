package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

type PostController struct {
	DB *gorm.DB
}

type CreatePostRequest struct {
	Heading string `json:"heading" binding:"required"`
	Content string `json:"content" binding:"required"`
	Image   string `json:"image"`
}

type UpdatePostRequest struct {
	ID      uint    `json:"id" binding:"required"`
	Heading *string `json:"heading"`
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{DB: db}
}

// CreatePost godoc
// @Summary Create a forum post
// @Description Author fields come from the session, never from the body
// @Tags forum
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post creation request"
// @Success 201 {object} models.Post
// @Router /Post [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	claims := utils.GetUser(c)
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	heading, content := strings.TrimSpace(req.Heading), strings.TrimSpace(req.Content)
	if heading == "" || content == "" {
		respondMessage(c, http.StatusBadRequest, "Heading and content are required")
		return
	}
	db := pc.DB.WithContext(c.Request.Context())

	var author models.User
	if err := db.First(&author, claims.UserID).Error; err != nil {
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post := models.Post{
		Heading:     heading,
		Content:     content,
		Image:       req.Image,
		CreatorID:   author.ID,
		CreatorName: author.Name,
	}

	tx := db.Begin()
	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		logger.L.Error("create post", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	if err := logActivity(tx, claims, models.ActivityPostCreated, post.ID); err != nil {
		tx.Rollback()
		logger.L.Error("create post activity", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	if err := tx.Commit().Error; err != nil {
		logger.L.Error("commit post", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPosts returns every post newest first with comment counts, author photos and likes.
func (pc *PostController) GetPosts(c *gin.Context) {
	views, err := loadPostViews(c.Request.Context(), pc.DB, nil)
	if err != nil {
		logger.L.Error("fetch posts", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (pc *PostController) GetPost(c *gin.Context) {
	postID, ok := utils.ParseID(c.Query("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	ctx := c.Request.Context()

	views, err := loadPostViews(ctx, pc.DB, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.id = ?", postID)
	})
	if err != nil {
		logger.L.Error("fetch post", zap.Uint("post", postID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}
	if len(views) == 0 {
		respondMessage(c, http.StatusNotFound, "Post not found")
		return
	}

	comments := []models.Comment{}
	if err := pc.DB.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error; err != nil {
		logger.L.Error("fetch post comments", zap.Uint("post", postID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     views[0],
		"comments": comments,
	})
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	claims := utils.GetUser(c)
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var post *models.Post
	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		post, err = ownedPost(tx, req.ID, claims.UserID)
		if err != nil {
			return err
		}
		if req.Heading != nil && strings.TrimSpace(*req.Heading) != "" {
			post.Heading = strings.TrimSpace(*req.Heading)
		}
		if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
			post.Content = strings.TrimSpace(*req.Content)
		}
		if req.Image != nil {
			post.Image = *req.Image
		}
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityPostUpdated, post.ID)
	})
	if err != nil {
		respondForumError(c, err, "Post", "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully", "post": post})
}

// DeletePostAndComments removes the post together with its comments and likes.
func (pc *PostController) DeletePostAndComments(c *gin.Context) {
	claims := utils.GetUser(c)
	postID, ok := utils.ParseID(c.Query("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedPost(tx, postID, claims.UserID); err != nil {
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
	respondMessage(c, http.StatusOK, "Post and associated comments deleted successfully")
}
