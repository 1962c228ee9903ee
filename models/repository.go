package models

import (
	"context"
	"errors"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/config"
	"gorm.io/gorm"
)

// Repository is one configured mirror target: a Google Sheet the sync worker
// keeps in step with a store collection. Category drives the collection
// binding; Name is a fallback.
type Repository struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Name       string     `gorm:"size:255" json:"name"`
	URL        string     `gorm:"size:512" json:"url"`
	Category   string     `gorm:"size:128" json:"category"`
	AssignedTo string     `gorm:"size:255" json:"assignedTo,omitempty"`
	LastSync   *time.Time `json:"lastSync,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type RepositoryStore struct {
	db *gorm.DB
}

func NewRepositoryStore(db *gorm.DB) *RepositoryStore {
	return &RepositoryStore{db: db}
}

func (s *RepositoryStore) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.GetDB()
}

func (s *RepositoryStore) List(ctx context.Context) ([]Repository, error) {
	var repos []Repository
	err := s.conn().WithContext(ctx).Order("id").Find(&repos).Error
	return repos, err
}

func (s *RepositoryStore) Get(ctx context.Context, id uint) (*Repository, error) {
	var repo Repository
	err := s.conn().WithContext(ctx).Take(&repo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &repo, nil
}

func (s *RepositoryStore) Create(ctx context.Context, repo *Repository) error {
	return s.conn().WithContext(ctx).Create(repo).Error
}

func (s *RepositoryStore) Update(ctx context.Context, repo *Repository) error {
	return s.conn().WithContext(ctx).Save(repo).Error
}

func (s *RepositoryStore) Delete(ctx context.Context, id uint) error {
	result := s.conn().WithContext(ctx).Delete(&Repository{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastSync stamps the repository after a sync pass, successful or not,
// so the dashboard always shows the most recent attempt.
func (s *RepositoryStore) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	return s.conn().WithContext(ctx).Model(&Repository{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_sync":  at,
			"updated_at": at,
		}).Error
}
