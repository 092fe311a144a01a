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

type TrendController struct {
	DB *gorm.DB
}

type TrendRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
	Category    string `json:"category" binding:"required,oneof=market technology weather policy crop"`
}

type UpdateTrendRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    *string `json:"category" binding:"omitempty,oneof=market technology weather policy crop"`
}

func NewTrendController(db *gorm.DB) *TrendController {
	return &TrendController{DB: db}
}

func validTrendCategory(category string) bool {
	for _, c := range models.TrendCategories {
		if c == category {
			return true
		}
	}
	return false
}

// GetTrends is public. An unknown category yields 400 rather than an empty list.
func (tc *TrendController) GetTrends(c *gin.Context) {
	q := tc.DB.WithContext(c.Request.Context()).Order("created_at DESC").Order("id DESC")
	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		if !validTrendCategory(category) {
			respondMessage(c, http.StatusBadRequest, "Invalid category")
			return
		}
		q = q.Where("category = ?", category)
	}

	trends := []models.Trend{}
	if err := q.Find(&trends).Error; err != nil {
		logger.L.Error("list trends", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (tc *TrendController) CreateTrend(c *gin.Context) {
	var req TrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	claims := utils.GetUser(c)

	trend := models.Trend{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Image:       req.Image,
		Category:    req.Category,
	}
	err := tc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trend).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityTrendCreated, trend.ID)
	})
	if err != nil {
		logger.L.Error("create trend", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to create trend")
		return
	}
	c.JSON(http.StatusCreated, trend)
}

func (tc *TrendController) UpdateTrend(c *gin.Context) {
	trendID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid trend id")
		return
	}
	var req UpdateTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	claims := utils.GetUser(c)

	var trend models.Trend
	err := tc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trend, trendID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			trend.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
			trend.Description = strings.TrimSpace(*req.Description)
		}
		if req.Image != nil {
			trend.Image = *req.Image
		}
		if req.Category != nil {
			trend.Category = *req.Category
		}
		if err := tx.Save(&trend).Error; err != nil {
			return err
		}
		return logActivity(tx, claims, models.ActivityTrendUpdated, trend.ID)
	})
	if err != nil {
		respondForumError(c, err, "Trend", "update")
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (tc *TrendController) DeleteTrend(c *gin.Context) {
	trendID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid trend id")
		return
	}
	claims := utils.GetUser(c)

	err := tc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Trend{}, trendID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return logActivity(tx, claims, models.ActivityTrendDeleted, trendID)
	})
	if err != nil {
		respondForumError(c, err, "Trend", "delete")
		return
	}
	respondMessage(c, http.StatusOK, "Trend deleted successfully")
}
