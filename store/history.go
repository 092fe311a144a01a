package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/models"
)

const (
	KindYield      = "yield"
	KindFertilizer = "fertilizer"
	KindCrop       = "crop"
)

// Page limits a history listing. A zero Limit means "everything".
type Page struct {
	Offset int
	Limit  int
}

// HistoryStore persists append-only prediction history. Records are never
// updated or de-duplicated: two identical requests produce two rows.
type HistoryStore interface {
	AddYield(ctx context.Context, rec *models.YieldDetails) error
	ListYield(ctx context.Context, userID uint, page Page) ([]models.YieldDetails, error)
	AddFertilizer(ctx context.Context, rec *models.FertilizerDetails) error
	ListFertilizer(ctx context.Context, userID uint, page Page) ([]models.FertilizerDetails, error)
	AddCrop(ctx context.Context, rec *models.CropDetails) error
	ListCrop(ctx context.Context, userID uint, page Page) ([]models.CropDetails, error)
	Count(ctx context.Context, kind string) (int64, error)
}

type SQLHistory struct {
	db *gorm.DB
}

func NewSQLHistory(db *gorm.DB) *SQLHistory {
	return &SQLHistory{db: db}
}

func sqlAdd[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return errors.Wrap(db.WithContext(ctx).Create(rec).Error, "insert history")
}

func sqlList[T any](ctx context.Context, db *gorm.DB, userID uint, page Page) ([]T, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if page.Limit > 0 {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}
	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list history")
	}
	return out, nil
}

func (s *SQLHistory) AddYield(ctx context.Context, rec *models.YieldDetails) error {
	rec.ID = 0
	return sqlAdd(ctx, s.db, rec)
}

func (s *SQLHistory) ListYield(ctx context.Context, userID uint, page Page) ([]models.YieldDetails, error) {
	return sqlList[models.YieldDetails](ctx, s.db, userID, page)
}

func (s *SQLHistory) AddFertilizer(ctx context.Context, rec *models.FertilizerDetails) error {
	rec.ID = 0
	return sqlAdd(ctx, s.db, rec)
}

func (s *SQLHistory) ListFertilizer(ctx context.Context, userID uint, page Page) ([]models.FertilizerDetails, error) {
	return sqlList[models.FertilizerDetails](ctx, s.db, userID, page)
}

func (s *SQLHistory) AddCrop(ctx context.Context, rec *models.CropDetails) error {
	rec.ID = 0
	return sqlAdd(ctx, s.db, rec)
}

func (s *SQLHistory) ListCrop(ctx context.Context, userID uint, page Page) ([]models.CropDetails, error) {
	return sqlList[models.CropDetails](ctx, s.db, userID, page)
}

func (s *SQLHistory) Count(ctx context.Context, kind string) (int64, error) {
	var model interface{}
	switch kind {
	case KindYield:
		model = &models.YieldDetails{}
	case KindFertilizer:
		model = &models.FertilizerDetails{}
	case KindCrop:
		model = &models.CropDetails{}
	default:
		return 0, errors.Errorf("unknown history kind %q", kind)
	}
	var n int64
	err := s.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, errors.Wrapf(err, "count %s history", kind)
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
