package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/utils"
)

// HistoryController records and lists per-user prediction history.
type HistoryController struct {
	Store store.HistoryStore
}

func NewHistoryController(s store.HistoryStore) *HistoryController {
	return &HistoryController{Store: s}
}

// appendHistory binds one record and always inserts it. A signed-in caller
// owns the row regardless of the id in the body.
func appendHistory[T any](c *gin.Context, kind string, owner func(*T) *uint, add func(context.Context, *T) error) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}
	userID := owner(&rec)
	if claims := utils.GetUser(c); claims != nil {
		*userID = claims.UserID
	}
	if *userID == 0 {
		respondMessage(c, http.StatusBadRequest, "User id is required")
		return
	}

	if err := add(c.Request.Context(), &rec); err != nil {
		logger.L.Error("save history", zap.String("kind", kind), zap.Uint("user", *userID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to save "+kind+" details")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Details saved successfully", "data": rec})
}

func listHistory[T any](c *gin.Context, kind string, list func(context.Context, uint, store.Page) ([]T, error)) {
	userID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		respondMessage(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var page store.Page
	if p, size, paged := utils.Pagination(c); paged {
		page = store.Page{Offset: (p - 1) * size, Limit: size}
	}

	rows, err := list(c.Request.Context(), userID, page)
	if err != nil {
		logger.L.Error("list history", zap.String("kind", kind), zap.Uint("user", userID), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch "+kind+" details")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (hc *HistoryController) AddYield(c *gin.Context) {
	appendHistory(c, store.KindYield, func(r *models.YieldDetails) *uint { return &r.UserID }, hc.Store.AddYield)
}

func (hc *HistoryController) GetYield(c *gin.Context) {
	listHistory(c, store.KindYield, hc.Store.ListYield)
}

func (hc *HistoryController) AddFertilizer(c *gin.Context) {
	appendHistory(c, store.KindFertilizer, func(r *models.FertilizerDetails) *uint { return &r.UserID }, hc.Store.AddFertilizer)
}

func (hc *HistoryController) GetFertilizer(c *gin.Context) {
	listHistory(c, store.KindFertilizer, hc.Store.ListFertilizer)
}

func (hc *HistoryController) AddCrop(c *gin.Context) {
	appendHistory(c, store.KindCrop, func(r *models.CropDetails) *uint { return &r.UserID }, hc.Store.AddCrop)
}

func (hc *HistoryController) GetCrop(c *gin.Context) {
	listHistory(c, store.KindCrop, hc.Store.ListCrop)
}
