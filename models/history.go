package models

import (
	"time"
)

// History rows are append-only: one row per prediction request, never updated.

type YieldDetails struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"_id,omitempty" bson:"-"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	UserID         uint      `gorm:"not null;index" json:"id" bson:"id"`
	State          string    `json:"state" bson:"state"`
	District       string    `json:"district" bson:"district"`
	Crop           string    `json:"crop" bson:"crop"`
	Season         string    `json:"season" bson:"season"`
	Year           int       `json:"year" bson:"year"`
	Area           float64   `json:"area" bson:"area"`
	Rainfall       float64   `json:"rainfall" bson:"rainfall"`
	Fertilizer     float64   `json:"fertilizer" bson:"fertilizer"`
	Pesticide      float64   `json:"pesticide" bson:"pesticide"`
	PredictedYield float64   `json:"predictedYield" bson:"predictedYield"`
	Unit           string    `json:"unit" bson:"unit"`
}

type FertilizerDetails struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"_id,omitempty" bson:"-"`
	CreatedAt           time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	UserID              uint      `gorm:"not null;index" json:"id" bson:"id"`
	Temperature         float64   `json:"temperature" bson:"temperature"`
	Humidity            float64   `json:"humidity" bson:"humidity"`
	Moisture            float64   `json:"moisture" bson:"moisture"`
	SoilType            string    `json:"soilType" bson:"soilType"`
	CropType            string    `json:"cropType" bson:"cropType"`
	Nitrogen            float64   `json:"nitrogen" bson:"nitrogen"`
	Potassium           float64   `json:"potassium" bson:"potassium"`
	Phosphorous         float64   `json:"phosphorous" bson:"phosphorous"`
	PredictedFertilizer string    `json:"predictedFertilizer" bson:"predictedFertilizer"`
}

type CropDetails struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"_id,omitempty" bson:"-"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
	UserID        uint      `gorm:"not null;index" json:"id" bson:"id"`
	Nitrogen      float64   `json:"N" bson:"N"`
	Phosphorus    float64   `json:"P" bson:"P"`
	Potassium     float64   `json:"K" bson:"K"`
	Temperature   float64   `json:"temperature" bson:"temperature"`
	Humidity      float64   `json:"humidity" bson:"humidity"`
	Ph            float64   `json:"ph" bson:"ph"`
	Rainfall      float64   `json:"rainfall" bson:"rainfall"`
	PredictedCrop string    `json:"predictedCrop" bson:"predictedCrop"`
}

func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Post{}, &Comment{}, &Like{}, &ActivityLog{},
		&Admin{}, &Trend{}, &YieldDetails{}, &FertilizerDetails{}, &CropDetails{},
	}
}
