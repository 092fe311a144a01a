package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/types"
)

const wikiCacheTTL = 24 * time.Hour

type WikiController struct {
	Wiki  clients.WikiProvider
	Cache cache.Cache
}

func NewWikiController(wiki clients.WikiProvider, c cache.Cache) *WikiController {
	if c == nil {
		c = cache.Nop{}
	}
	return &WikiController{Wiki: wiki, Cache: c}
}

func (wc *WikiController) GetThumbnail(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		respondMessage(c, http.StatusBadRequest, "Title is required")
		return
	}

	key := "wiki:" + strings.ToLower(title)
	summary, err := cache.Remember(c.Request.Context(), wc.Cache, key, wikiCacheTTL, func(ctx context.Context) (*types.WikiSummary, error) {
		return wc.Wiki.Summary(ctx, title)
	})
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			respondMessage(c, http.StatusNotFound, "Page not found")
			return
		}
		logger.L.Warn("wikipedia lookup failed", zap.String("title", title), zap.Error(err))
		respondMessage(c, http.StatusBadGateway, "Wikipedia unavailable")
		return
	}
	c.JSON(http.StatusOK, summary)
}
