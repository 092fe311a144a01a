package controllers

import (
	"context"
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

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

func findPost(tx *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := tx.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ownedPost loads a post and checks that the caller created it.
func ownedPost(tx *gorm.DB, id, userID uint) (*models.Post, error) {
	post, err := findPost(tx, id)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func ownedComment(tx *gorm.DB, id, userID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := tx.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.CreatorID != userID {
		return nil, ErrForbidden
	}
	return &comment, nil
}

func respondForumError(c *gin.Context, err error, entity, action string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondMessage(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, ErrForbidden):
		respondMessage(c, http.StatusForbidden, "You are not allowed to "+action+" this "+strings.ToLower(entity))
	default:
		logger.L.Error(action+" "+strings.ToLower(entity), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to "+action+" "+strings.ToLower(entity))
	}
}

// postViews selects posts with their comment count and the author's photo.
// A post whose author was deleted gets a NULL profile_photo.
func postViews(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Model(&models.Post{}).
		Select(`
			posts.*,
			users.profile_photo AS profile_photo,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count
		`).
		Joins("LEFT JOIN users ON users.id = posts.creator_id")
}

func attachLikes(ctx context.Context, db *gorm.DB, views []models.PostView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]uint, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}

	var likes []models.Like
	if err := db.WithContext(ctx).Where("post_id IN ?", ids).Order("like_id").Find(&likes).Error; err != nil {
		return err
	}
	byPost := make(map[uint][]uint, len(views))
	for _, l := range likes {
		byPost[l.PostID] = append(byPost[l.PostID], l.UserID)
	}
	for i := range views {
		views[i].LikeUserIDs = byPost[views[i].ID]
		if views[i].LikeUserIDs == nil {
			views[i].LikeUserIDs = []uint{}
		}
	}
	return nil
}

func loadPostViews(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]models.PostView, error) {
	views := []models.PostView{}
	q := postViews(ctx, db)
	if scope != nil {
		q = scope(q)
	}
	if err := q.Order("posts.created_at DESC").Order("posts.id DESC").Scan(&views).Error; err != nil {
		return nil, err
	}
	if err := attachLikes(ctx, db, views); err != nil {
		return nil, err
	}
	return views, nil
}

func likeUserIDs(ctx context.Context, db *gorm.DB, postID uint) ([]uint, error) {
	ids := []uint{}
	err := db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Order("like_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// deletePostCascade removes a post with its comments and likes. Call inside a transaction.
func deletePostCascade(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, postID).Error
}

func logActivity(tx *gorm.DB, claims *utils.UserClaims, activity string, subjectID uint) error {
	return tx.Create(&models.ActivityLog{
		ActorID:   claims.UserID,
		ActorRole: claims.Role,
		Activity:  activity,
		SubjectID: subjectID,
	}).Error
}
