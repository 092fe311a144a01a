package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

// InteractionController serves likes and comments on forum posts.
type InteractionController struct {
	DB *gorm.DB
}

type CreateCommentRequest struct {
	PostID  uint   `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	ID      uint   `json:"id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{DB: db}
}

// LikePost godoc
// @Summary Like or unlike a post
// @Description Toggles the caller's like on a post
// @Tags forum
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /{id}/likePost [patch]
func (ic *InteractionController) LikePost(c *gin.Context) {
	claims := utils.GetUser(c)
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid post id")
		return
	}
	db := ic.DB.WithContext(c.Request.Context())

	liked := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findPost(tx, postID); err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND user_id = ?", postID, claims.UserID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return logActivity(tx, claims, models.ActivityPostUnliked, postID)
		}
		if err := tx.Create(&models.Like{PostID: postID, UserID: claims.UserID}).Error; err != nil {
			return err
		}
		liked = true
		return logActivity(tx, claims, models.ActivityPostLiked, postID)
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// a concurrent request already added this like
		liked = true
	case err != nil:
		respondForumError(c, err, "Post", "like")
		return
	}

	likes, err := likeUserIDs(c.Request.Context(), ic.DB, postID)
	if err != nil {
		logger.L.Error("load likes", zap.Uint("post", postID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to like post")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"likesCount": len(likes),
		"likes":      likes,
	})
}

func (ic *InteractionController) CreateComment(c *gin.Context) {
	claims := utils.GetUser(c)
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondMessage(c, http.StatusBadRequest, "Content is required")
		return
	}

	var comment models.Comment
	err := ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := findPost(tx, req.PostID); err != nil {
			return err
		}
		var author models.User
		if err := tx.First(&author, claims.UserID).Error; err != nil {
			return err
		}
		comment = models.Comment{
			Content:     content,
			PostID:      req.PostID,
			CreatorID:   author.ID,
			CreatorName: author.Name,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityCommentCreated, comment.ID)
	})
	if err != nil {
		respondForumError(c, err, "Post", "comment on")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetComments lists a post's comments oldest first, or every comment when no postId is given.
func (ic *InteractionController) GetComments(c *gin.Context) {
	q := ic.DB.WithContext(c.Request.Context()).Order("created_at ASC").Order("id ASC")
	if raw := c.Query("postId"); raw != "" {
		postID, ok := utils.ParseID(raw)
		if !ok {
			respondMessage(c, http.StatusBadRequest, "Invalid post id")
			return
		}
		q = q.Where("post_id = ?", postID)
	}

	comments := []models.Comment{}
	if err := q.Find(&comments).Error; err != nil {
		logger.L.Error("fetch comments", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (ic *InteractionController) UpdateComment(c *gin.Context) {
	claims := utils.GetUser(c)
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondMessage(c, http.StatusBadRequest, "Content is required")
		return
	}

	var comment *models.Comment
	err := ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if comment, err = ownedComment(tx, req.ID, claims.UserID); err != nil {
			return err
		}
		comment.Content = content
		if err := tx.Save(comment).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityCommentUpdated, comment.ID)
	})
	if err != nil {
		respondForumError(c, err, "Comment", "update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully", "comment": comment})
}

func (ic *InteractionController) DeleteComment(c *gin.Context) {
	claims := utils.GetUser(c)
	commentID, ok := utils.ParseID(c.Query("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid comment id")
		return
	}

	err := ic.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedComment(tx, commentID, claims.UserID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, commentID).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityCommentDeleted, commentID)
	})
	if err != nil {
		respondForumError(c, err, "Comment", "delete")
		return
	}
	respondMessage(c, http.StatusOK, "Comment deleted successfully")
}
