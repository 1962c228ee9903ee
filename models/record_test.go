package models

import (
	"testing"
	"time"
)

func TestDocumentMapIncludesIDAndTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	doc := Document{
		ID:        "abc123",
		Fields:    map[string]any{"name": "Sara Lin", "status": "Pending"},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	m := doc.Map()
	if m["id"] != "abc123" {
		t.Errorf("id = %v", m["id"])
	}
	if m["name"] != "Sara Lin" {
		t.Errorf("name = %v", m["name"])
	}
	if m["createdAt"] != "2026-03-01T10:30:00Z" {
		t.Errorf("createdAt = %v", m["createdAt"])
	}
	if m["updatedAt"] != "2026-03-01T11:30:00Z" {
		t.Errorf("updatedAt = %v", m["updatedAt"])
	}
}

func TestDocumentMapDoesNotAliasFields(t *testing.T) {
	doc := Document{ID: "x", Fields: map[string]any{"name": "A"}}
	m := doc.Map()
	m["name"] = "B"
	if doc.Fields["name"] != "A" {
		t.Error("Map must copy fields, not alias them")
	}
}

func TestNewDocID(t *testing.T) {
	a, b := NewDocID(), NewDocID()
	if a == b {
		t.Fatal("ids must be unique")
	}
	if len(a) != 32 {
		t.Errorf("id length = %d, want 32", len(a))
	}
	for _, r := range a {
		if r == '-' {
			t.Fatal("id must not contain dashes")
		}
	}
}
