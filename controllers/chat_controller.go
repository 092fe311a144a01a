package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/logger"
)

const maxChatHistory = 20

type ChatController struct {
	Assistant clients.Chatter
}

type ChatRequest struct {
	Message string             `json:"message" binding:"required"`
	History []clients.ChatTurn `json:"history" binding:"omitempty,dive"`
}

func NewChatController(chat clients.Chatter) *ChatController {
	return &ChatController{Assistant: chat}
}

func (cc *ChatController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	history := req.History
	if len(history) > maxChatHistory {
		history = history[len(history)-maxChatHistory:]
	}

	reply, err := cc.Assistant.Chat(c.Request.Context(), history, req.Message)
	if err != nil {
		if errors.Is(err, clients.ErrNotEnabled) {
			respondMessage(c, http.StatusServiceUnavailable, "Chat assistant is not configured")
			return
		}
		logger.L.Error("gemini chat", zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to get a reply")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
