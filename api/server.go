// Package api exposes the admin dashboard REST surface: record CRUD,
// repository management, auth, and dashboard intelligence endpoints.
package api

import (
	"context"

	"github.com/akshayWork-19/RightTutor-Backend/ai"
	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/notify"
	"github.com/akshayWork-19/RightTutor-Backend/sheetsync"
	"github.com/sirupsen/logrus"
)

// RecordStore is the document store surface the handlers need. Satisfied
// by models.RecordStore.
type RecordStore interface {
	List(ctx context.Context, collection string) ([]models.Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (*models.Document, error)
	Update(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error)
	Delete(ctx context.Context, collection string, docID string) error
	Count(ctx context.Context, collection string) (int64, error)
	CountWhereField(ctx context.Context, collection string, field string, value string) (int64, error)
}

// RepositoryStore is satisfied by models.RepositoryStore.
type RepositoryStore interface {
	List(ctx context.Context) ([]models.Repository, error)
	Get(ctx context.Context, id uint) (*models.Repository, error)
	Create(ctx context.Context, repo *models.Repository) error
	Update(ctx context.Context, repo *models.Repository) error
	Delete(ctx context.Context, id uint) error
}

// AdminStore is satisfied by models.AdminStore.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
}

// Server bundles the dependencies the handlers share. Sync and AI are
// optional; endpoints degrade gracefully when they are absent.
type Server struct {
	Records  RecordStore
	Repos    RepositoryStore
	Admins   AdminStore
	Sync     *sheetsync.Worker
	Notifier notify.Publisher
	AI       *ai.Client
	Logger   *logrus.Logger
}

// pushToSheet mirrors a record mutation onto the linked sheet, best effort.
func (s *Server) pushToSheet(module string, data map[string]any, action string) {
	if s.Sync == nil {
		return
	}
	// Detached context: the push must survive the request ending.
	go s.Sync.PushRecord(context.Background(), module, data, action)
}
