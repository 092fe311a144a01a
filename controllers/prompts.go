package controllers

import (
	"fmt"
	"strings"
)

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
	"gu": "Gujarati",
	"pa": "Punjabi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"bn": "Bengali",
}

// languageName maps a language code to the name used in prompts. Unknown
// values are passed through so "Hindi" and "hi" both work.
func languageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "English"
	}
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

const advisorySystemPrompt = `You are an agronomy expert advising smallholder farmers in India.
Always answer with a single JSON object and nothing else.`

func advisoryPrompt(req *AdvisoryRequest) string {
	return fmt.Sprintf(`Give a crop advisory for %s grown on %s soil.
Soil test: pH %.1f, nitrogen %.1f, phosphorus %.1f, potassium %.1f.
Weather: temperature %.1f C, humidity %.1f%%, rainfall %.1f mm.
Respond in %s with a JSON object with keys:
"summary" (string), "soilHealth" (string), "fertilizerRecommendations" (array of strings),
"irrigationAdvice" (string), "pestManagement" (array of strings), "warnings" (array of strings).`,
		req.Crop, req.SoilType, req.Ph, req.Nitrogen, req.Phosphorus, req.Potassium,
		req.Temperature, req.Humidity, req.Rainfall, languageName(req.Language))
}

const plannerSystemPrompt = `You are a farm planning assistant for Indian agriculture.
Always answer with a single JSON object and nothing else.`

func seasonPlanPrompt(req *SeasonPlanRequest) string {
	irrigation := req.Irrigation
	if irrigation == "" {
		irrigation = "rainfed"
	}
	return fmt.Sprintf(`Create a season plan for growing %s in the %s season at %s on %.2f acres with %s irrigation.
Respond in %s with a JSON object with keys:
"overview" (string), "timeline" (array of {"week": string, "activity": string}),
"inputs" (array of {"item": string, "quantity": string}), "estimatedCost" (string),
"expectedYield" (string), "risks" (array of strings).`,
		req.Crop, req.Season, req.Location, req.LandSize, irrigation, languageName(req.Language))
}

const voiceSystemPrompt = `You are a friendly agricultural helpline assistant.
Answer briefly and practically. Always answer with a JSON object of the form {"answer": "..."}.`

func voicePrompt(query, language string) string {
	return fmt.Sprintf("Answer the farmer's question in %s.\nQuestion: %s", languageName(language), query)
}
