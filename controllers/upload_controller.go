package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"
)

const (
	maxImageSize   = 10 * 1024 * 1024
	presignExpires = time.Hour

	PurposePost    = "post"
	PurposeTrend   = "trend"
	PurposeProfile = "profile"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config config.R2Config
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,gt=0"`
	Purpose     string `json:"purpose" binding:"required,oneof=post trend profile"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadCompleteRequest struct {
	Key string `json:"key" binding:"required"`
}

// NewUploadController builds an S3 client for the R2 bucket. Endpoint
// overrides the account-derived R2 endpoint.
func NewUploadController(db *gorm.DB, r2 config.R2Config) *UploadController {
	endpoint := r2.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID)
	}
	region := r2.Region
	if region == "" {
		region = "auto"
	}

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2.AccessKeyID,
			r2.SecretAccessKey,
			"",
		),
		Region:       region,
		UsePathStyle: true,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2,
	}
}

func (uc *UploadController) publicURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(uc.R2Config.PublicURL, "/"), key)
}

// ownerSegment keeps user and admin ids apart inside object keys.
func ownerSegment(claims *utils.UserClaims) string {
	return fmt.Sprintf("%s-%d", claims.Role, claims.UserID)
}

func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	claims := utils.GetUser(c)
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Purpose == PurposeTrend && claims.Role != utils.RoleAdmin {
		respondMessage(c, http.StatusForbidden, "Only admins can upload trend images")
		return
	}
	if !isValidImageType(req.ContentType) {
		respondMessage(c, http.StatusBadRequest, "Only JPEG, PNG and WebP images are allowed")
		return
	}
	if req.FileSize > maxImageSize {
		respondMessage(c, http.StatusBadRequest, "File size exceeds limit")
		return
	}

	key := generateFileKey(ownerSegment(claims), req.Purpose, req.FileName)
	presignedURL, err := uc.createPresignedURL(c.Request.Context(), key, req.ContentType)
	if err != nil {
		logger.L.Error("presign upload", zap.String("key", key), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   uc.publicURL(key),
			Key:       key,
			ExpiresIn: int(presignExpires.Seconds()),
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload checks that the object landed in the bucket. A confirmed
// profile upload becomes the caller's profile photo.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	claims := utils.GetUser(c)
	var req UploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !verifyFileOwnership(req.Key, claims) {
		respondMessage(c, http.StatusForbidden, "Access denied")
		return
	}
	ctx := c.Request.Context()

	info, err := uc.getFileInfo(ctx, req.Key)
	if err != nil {
		respondMessage(c, http.StatusNotFound, "File not found in storage")
		return
	}

	fileURL := uc.publicURL(req.Key)
	if purposeOf(req.Key) == PurposeProfile && claims.Role == utils.RoleUser {
		err := uc.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", claims.UserID).
			Update("profile_photo", fileURL).Error
		if err != nil {
			logger.L.Error("set profile photo", zap.Uint("user", claims.UserID), zap.Error(err))
			respondMessage(c, http.StatusInternalServerError, "Failed to confirm upload")
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":      req.Key,
			"fileUrl":  fileURL,
			"fileSize": info.ContentLength,
		},
		Message: "Upload confirmed successfully",
	})
}

func (uc *UploadController) DeleteFile(c *gin.Context) {
	claims := utils.GetUser(c)
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respondMessage(c, http.StatusBadRequest, "File key is required")
		return
	}
	if !verifyFileOwnership(key, claims) {
		respondMessage(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := uc.deleteFile(c.Request.Context(), key); err != nil {
		logger.L.Error("delete upload", zap.String("key", key), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "File deleted successfully",
	})
}

func isValidImageType(contentType string) bool {
	return allowedImageTypes[strings.ToLower(contentType)]
}

// generateFileKey lays keys out as uploads/{purpose}/{owner}/{timestamp}_{uuid}{ext}.
func generateFileKey(owner, purpose, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("uploads/%s/%s/%d_%s%s", purpose, owner, time.Now().Unix(), uuid.New().String(), ext)
}

func purposeOf(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "uploads" {
		return ""
	}
	return parts[1]
}

func verifyFileOwnership(key string, claims *utils.UserClaims) bool {
	if strings.Contains(key, "..") {
		return false
	}
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "uploads" {
		return false
	}
	return parts[2] == ownerSegment(claims)
}

func (uc *UploadController) createPresignedURL(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (uc *UploadController) getFileInfo(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	if uc.R2Config.BucketName == "" {
		return nil, errors.New("r2 bucket is not configured")
	}
	return uc.R2Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	})
}

func (uc *UploadController) deleteFile(ctx context.Context, key string) error {
	_, err := uc.R2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	})
	return err
}
