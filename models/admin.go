package models

import (
	"context"
	"errors"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/config"
	"gorm.io/gorm"
)

// Admin is a dashboard login. Passwords are bcrypt hashes.
type Admin struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	Role      string    `gorm:"size:32;default:admin" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AdminStore struct {
	db *gorm.DB
}

func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.GetDB()
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	err := s.conn().WithContext(ctx).Where("email = ?", email).Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AdminStore) GetByID(ctx context.Context, id string) (*Admin, error) {
	var admin Admin
	err := s.conn().WithContext(ctx).Where("id = ?", id).Take(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AdminStore) Create(ctx context.Context, admin *Admin) error {
	return s.conn().WithContext(ctx).Create(admin).Error
}
