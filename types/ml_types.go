package types

import (
	"encoding/json"
	"strconv"
)

// MLResult is the prediction service's JSON response, forwarded to the client as is.
type MLResult = json.RawMessage

type CropPredictionRequest struct {
	Nitrogen    float64 `json:"N" binding:"min=0"`
	Phosphorus  float64 `json:"P" binding:"min=0"`
	Potassium   float64 `json:"K" binding:"min=0"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity" binding:"min=0,max=100"`
	Ph          float64 `json:"ph" binding:"min=0,max=14"`
	Rainfall    float64 `json:"rainfall" binding:"min=0"`
}

type FertilizerPredictionRequest struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity" binding:"min=0,max=100"`
	Moisture    float64 `json:"moisture" binding:"min=0"`
	SoilType    string  `json:"soil_type" binding:"required"`
	CropType    string  `json:"crop_type" binding:"required"`
	Nitrogen    float64 `json:"nitrogen" binding:"min=0"`
	Potassium   float64 `json:"potassium" binding:"min=0"`
	Phosphorous float64 `json:"phosphorous" binding:"min=0"`
}

type YieldPredictionRequest struct {
	State      string  `json:"state" binding:"required"`
	District   string  `json:"district" binding:"required"`
	Crop       string  `json:"crop" binding:"required"`
	Season     string  `json:"season" binding:"required"`
	Year       int     `json:"year"`
	Area       float64 `json:"area" binding:"gt=0"`
	Rainfall   float64 `json:"rainfall"`
	Fertilizer float64 `json:"fertilizer"`
	Pesticide  float64 `json:"pesticide"`
}

// PredictionString returns the first string value found under one of keys.
func PredictionString(result MLResult, keys ...string) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(result, &obj); err != nil {
		return ""
	}
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			return v
		case []interface{}:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

// PredictionFloat returns the first numeric value found under one of keys.
// Numeric strings are accepted.
func PredictionFloat(result MLResult, keys ...string) (float64, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal(result, &obj); err != nil {
		return 0, false
	}
	for _, key := range keys {
		switch v := obj[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
