package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/config"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Known collections. Everything else is stored under its own name.
const (
	CollectionContacts      = "contacts"
	CollectionBookings      = "bookings"
	CollectionManualMatches = "manualMatches"
	CollectionRepositories  = "repositories"
)

// Record is one schemaless document row. Every collection shares this table;
// field payloads live in a JSON column so collections stay free-form the way
// the admin dashboard expects.
type Record struct {
	ID         uint   `gorm:"primarykey"`
	Collection string `gorm:"size:64;uniqueIndex:idx_records_collection_doc,priority:1"`
	DocID      string `gorm:"size:64;uniqueIndex:idx_records_collection_doc,priority:2"`
	FieldsJSON []byte `gorm:"type:json"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Document is the in-memory view of a Record.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Map flattens the document into the JSON shape the original API exposes:
// field payload plus id and timestamps.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["id"] = d.ID
	out["createdAt"] = d.CreatedAt.UTC().Format(time.RFC3339)
	out["updatedAt"] = d.UpdatedAt.UTC().Format(time.RFC3339)
	return out
}

// NewDocID allocates a store-generated document id.
func NewDocID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RecordStore is the document store over MySQL. Pass a handle for tests;
// with nil it resolves the global connection per call, so the store can be
// wired before the database is up.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.GetDB()
}

func (s *RecordStore) NewID() string {
	return NewDocID()
}

func (s *RecordStore) List(ctx context.Context, collection string) ([]Document, error) {
	var records []Record
	if err := s.conn().WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(records))
	for i := range records {
		doc, err := recordToDocument(&records[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Sample returns one document from the collection, or nil when empty.
// Used to derive sheet headers for unknown collections.
func (s *RecordStore) Sample(ctx context.Context, collection string) (*Document, error) {
	var record Record
	err := s.conn().WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recordToDocument(&record)
}

// Get returns nil, nil when the document does not exist.
func (s *RecordStore) Get(ctx context.Context, collection string, docID string) (*Document, error) {
	var record Record
	err := s.conn().WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, docID).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recordToDocument(&record)
}

// Create persists a new document with a store-assigned id and fresh
// timestamps.
func (s *RecordStore) Create(ctx context.Context, collection string, fields map[string]any) (*Document, error) {
	return s.Set(ctx, collection, NewDocID(), fields)
}

// Set writes the document at the given id, replacing any existing field
// payload entirely.
func (s *RecordStore) Set(ctx context.Context, collection string, docID string, fields map[string]any) (*Document, error) {
	payload, err := marshalFields(fields)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := s.Get(ctx, collection, docID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		record := Record{
			Collection: collection,
			DocID:      docID,
			FieldsJSON: payload,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.conn().WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return recordToDocument(&record)
	}

	if err := s.conn().WithContext(ctx).Model(&Record{}).
		Where("collection = ? AND doc_id = ?", collection, docID).
		Updates(map[string]interface{}{
			"fields_json": payload,
			"updated_at":  now,
		}).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, collection, docID)
}

// Update merges the given fields into the existing document and refreshes
// updatedAt. Returns ErrorRecordNotFound when the document does not exist.
func (s *RecordStore) Update(ctx context.Context, collection string, docID string, fields map[string]any) (*Document, error) {
	existing, err := s.Get(ctx, collection, docID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.ErrorRecordNotFound
	}

	merged := make(map[string]any, len(existing.Fields)+len(fields))
	for k, v := range existing.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	payload, err := marshalFields(merged)
	if err != nil {
		return nil, err
	}
	if err := s.conn().WithContext(ctx).Model(&Record{}).
		Where("collection = ? AND doc_id = ?", collection, docID).
		Updates(map[string]interface{}{
			"fields_json": payload,
			"updated_at":  time.Now(),
		}).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, collection, docID)
}

func (s *RecordStore) Delete(ctx context.Context, collection string, docID string) error {
	result := s.conn().WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, docID).
		Delete(&Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func (s *RecordStore) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.conn().WithContext(ctx).Model(&Record{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return count, err
}

// CountWhereField counts documents whose JSON field equals the given value.
func (s *RecordStore) CountWhereField(ctx context.Context, collection string, field string, value string) (int64, error) {
	var count int64
	err := s.conn().WithContext(ctx).Model(&Record{}).
		Where("collection = ?", collection).
		Where("JSON_UNQUOTE(JSON_EXTRACT(fields_json, ?)) = ?", "$."+field, value).
		Count(&count).Error
	return count, err
}

func marshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	// The id rides in its own column; never duplicate it in the payload.
	delete(fields, "id")
	return json.Marshal(fields)
}

func recordToDocument(record *Record) (*Document, error) {
	fields := map[string]any{}
	if len(record.FieldsJSON) > 0 {
		if err := json.Unmarshal(record.FieldsJSON, &fields); err != nil {
			return nil, err
		}
	}
	return &Document{
		ID:        record.DocID,
		Fields:    fields,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}
