package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/logger"
)

// AdvisoryController serves the LLM-backed advisory, season planner and voice answers.
type AdvisoryController struct {
	LLM clients.Completer
}

type AdvisoryRequest struct {
	Crop        string  `json:"crop" binding:"required"`
	SoilType    string  `json:"soilType" binding:"required"`
	Ph          float64 `json:"ph"`
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	Language    string  `json:"language"`
}

type SeasonPlanRequest struct {
	Crop       string  `json:"crop" binding:"required"`
	Season     string  `json:"season" binding:"required"`
	Location   string  `json:"location" binding:"required"`
	LandSize   float64 `json:"landSize"`
	Irrigation string  `json:"irrigation"`
	Language   string  `json:"language"`
}

type VoiceQueryRequest struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

func NewAdvisoryController(llm clients.Completer) *AdvisoryController {
	return &AdvisoryController{LLM: llm}
}

// parseModelJSON decodes a completion, tolerating a markdown code fence
// around the payload.
func parseModelJSON(raw string) (interface{}, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	var out interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (ac *AdvisoryController) complete(c *gin.Context, op, system, prompt string) (string, bool) {
	text, err := ac.LLM.CompleteJSON(c.Request.Context(), system, prompt)
	if err != nil {
		if errors.Is(err, clients.ErrNotEnabled) {
			respondMessage(c, http.StatusServiceUnavailable, "AI service is not configured")
			return "", false
		}
		logger.L.Error("llm completion failed", zap.String("op", op), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to generate "+op)
		return "", false
	}
	return text, true
}

func (ac *AdvisoryController) Advisory(c *gin.Context) {
	var req AdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text, ok := ac.complete(c, "advisory", advisorySystemPrompt, advisoryPrompt(&req))
	if !ok {
		return
	}

	advisory, parsed := parseModelJSON(text)
	if !parsed {
		logger.L.Warn("unparsable advisory", zap.String("raw", text))
		advisory = gin.H{"error": "Failed to parse advisory data."}
	}
	c.JSON(http.StatusOK, gin.H{"advisory": advisory})
}

func (ac *AdvisoryController) SeasonPlanner(c *gin.Context) {
	var req SeasonPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text, ok := ac.complete(c, "season plan", plannerSystemPrompt, seasonPlanPrompt(&req))
	if !ok {
		return
	}

	plan, parsed := parseModelJSON(text)
	if !parsed {
		logger.L.Warn("unparsable season plan", zap.String("raw", text))
		plan = gin.H{"error": "Failed to parse plan data."}
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (ac *AdvisoryController) VoiceQuery(c *gin.Context) {
	var req VoiceQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	text, ok := ac.complete(c, "answer", voiceSystemPrompt, voicePrompt(req.Query, req.Language))
	if !ok {
		return
	}

	answer := strings.TrimSpace(text)
	if v, parsed := parseModelJSON(text); parsed {
		if obj, isObj := v.(map[string]interface{}); isObj {
			if s, isStr := obj["answer"].(string); isStr {
				answer = s
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer, "language": req.Language})
}
