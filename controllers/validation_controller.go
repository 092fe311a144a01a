package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
)

type ValidationController struct {
	DB *gorm.DB
}

func NewValidationController(db *gorm.DB) *ValidationController {
	return &ValidationController{DB: db}
}

// ValidateEmail lets the signup form check availability before submitting.
func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	email := normalizeEmail(c.Param("email"))

	var count int64
	err := vc.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		logger.L.Error("check email", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to check email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": count > 0})
}
