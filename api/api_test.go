package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/middlewares"
	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRecords struct {
	docs   map[string]map[string]*models.Document
	order  map[string][]string
	nextID int
}

func newMemRecords() *memRecords {
	return &memRecords{docs: map[string]map[string]*models.Document{}, order: map[string][]string{}}
}

func (m *memRecords) List(ctx context.Context, collection string) ([]models.Document, error) {
	out := make([]models.Document, 0, len(m.order[collection]))
	for _, id := range m.order[collection] {
		out = append(out, *m.docs[collection][id])
	}
	return out, nil
}

func (m *memRecords) Create(ctx context.Context, collection string, fields map[string]any) (*models.Document, error) {
	m.nextID++
	id := fmt.Sprintf("doc%d", m.nextID)
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != "id" {
			copied[k] = v
		}
	}
	doc := &models.Document{ID: id, Fields: copied, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if m.docs[collection] == nil {
		m.docs[collection] = map[string]*models.Document{}
	}
	m.docs[collection][id] = doc
	m.order[collection] = append(m.order[collection], id)
	copiedDoc := *doc
	return &copiedDoc, nil
}

func (m *memRecords) Update(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error) {
	doc, ok := m.docs[collection][docID]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	for k, v := range fields {
		if k != "id" {
			doc.Fields[k] = v
		}
	}
	doc.UpdatedAt = time.Now()
	copied := *doc
	return &copied, nil
}

func (m *memRecords) Delete(ctx context.Context, collection string, docID string) error {
	if _, ok := m.docs[collection][docID]; !ok {
		return utils.ErrorRecordNotFound
	}
	delete(m.docs[collection], docID)
	ids := m.order[collection][:0]
	for _, id := range m.order[collection] {
		if id != docID {
			ids = append(ids, id)
		}
	}
	m.order[collection] = ids
	return nil
}

func (m *memRecords) Count(ctx context.Context, collection string) (int64, error) {
	return int64(len(m.order[collection])), nil
}

func (m *memRecords) CountWhereField(ctx context.Context, collection string, field string, value string) (int64, error) {
	var n int64
	for _, id := range m.order[collection] {
		if m.docs[collection][id].Fields[field] == value {
			n++
		}
	}
	return n, nil
}

type memAdmins struct {
	byEmail map[string]*models.Admin
	nextID  uint
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byEmail: map[string]*models.Admin{}}
}

func (m *memAdmins) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := m.byEmail[email]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *memAdmins) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	for _, a := range m.byEmail {
		if fmt.Sprint(a.ID) == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memAdmins) Create(ctx context.Context, admin *models.Admin) error {
	m.nextID++
	admin.ID = m.nextID
	copied := *admin
	m.byEmail[admin.Email] = &copied
	return nil
}

type memRepos struct {
	repos  []models.Repository
	nextID uint
}

func (m *memRepos) List(ctx context.Context) ([]models.Repository, error) {
	return append([]models.Repository(nil), m.repos...), nil
}

func (m *memRepos) Get(ctx context.Context, id uint) (*models.Repository, error) {
	for i := range m.repos {
		if m.repos[i].ID == id {
			copied := m.repos[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) Create(ctx context.Context, repo *models.Repository) error {
	m.nextID++
	repo.ID = m.nextID
	m.repos = append(m.repos, *repo)
	return nil
}

func (m *memRepos) Update(ctx context.Context, repo *models.Repository) error {
	for i := range m.repos {
		if m.repos[i].ID == repo.ID {
			m.repos[i] = *repo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepos) Delete(ctx context.Context, id uint) error {
	for i := range m.repos {
		if m.repos[i].ID == id {
			m.repos = append(m.repos[:i], m.repos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) Publish(module string, action string, id string, data map[string]any) {
	r.events = append(r.events, module+":"+action)
}

type testEnv struct {
	router  *gin.Engine
	records *memRecords
	admins  *memAdmins
	repos   *memRepos
	events  *eventRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		records: newMemRecords(),
		admins:  newMemAdmins(),
		repos:   &memRepos{},
		events:  &eventRecorder{},
	}

	s := &Server{
		Records:  env.records,
		Repos:    env.repos,
		Admins:   env.admins,
		Notifier: env.events,
		Logger:   logger,
	}

	r := gin.New()
	r.Use(middlewares.AuthMiddleware())
	s.RegisterRoutes(r)
	env.router = r
	return env
}

func (env *testEnv) request(t *testing.T, method string, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.JwtGenerate("1", "admin@righttutor.com", "admin")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}
