package storage

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/raki03031/edushare/internal/models"
)

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = errors.New("record not found")

// MetadataStore is the remote store for file and review records. It may be
// absent at runtime; callers hold a nil interface then and fall back to
// the local directory. Implementations must be safe for concurrent use.
type MetadataStore interface {
	SaveFile(ctx context.Context, rec *models.FileRecord) error
	GetFile(ctx context.Context, id string) (*models.FileRecord, error)
	ListFiles(ctx context.Context) ([]models.FileRecord, error)
	SaveReview(ctx context.Context, rec *models.ReviewRecord) error
	ListReviews(ctx context.Context, fileID string) ([]models.ReviewRecord, error)
}

// GormStore backs MetadataStore with Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.FileRecord{}, &models.ReviewRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) SaveFile(ctx context.Context, rec *models.FileRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *GormStore) GetFile(ctx context.Context, id string) (*models.FileRecord, error) {
	var rec models.FileRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	var recs []models.FileRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *GormStore) SaveReview(ctx context.Context, rec *models.ReviewRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *GormStore) ListReviews(ctx context.Context, fileID string) ([]models.ReviewRecord, error) {
	var recs []models.ReviewRecord
	if err := s.db.WithContext(ctx).Where("file_id = ?", fileID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
