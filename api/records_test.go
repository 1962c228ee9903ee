package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/akshayWork-19/RightTutor-Backend/models"
)

func TestSubmitContactRequiresIdentification(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/contact", map[string]any{"message": "hello"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if n, _ := env.records.Count(context.Background(), models.CollectionContacts); n != 0 {
		t.Fatalf("expected no records, got %d", n)
	}
}

func TestSubmitContactDefaultsStatusPending(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/contact", map[string]any{
		"name":    "Sara Lin",
		"email":   "sara@example.com",
		"subject": "Algebra",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	data, _ := body["data"].(map[string]any)
	if data == nil {
		t.Fatalf("missing data payload: %s", w.Body.String())
	}
	if data["status"] != "Pending" {
		t.Errorf("status = %v, want Pending", data["status"])
	}
	if data["id"] == "" || data["id"] == nil {
		t.Errorf("expected generated id, got %v", data["id"])
	}

	if len(env.events.events) != 1 || env.events.events[0] != "contacts:add" {
		t.Errorf("events = %v, want [contacts:add]", env.events.events)
	}
}

func TestSubmitConsultationRequiresName(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/consultation", map[string]any{"email": "p@example.com"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestSubmitConsultationMirrorsSheetFieldNames(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/consultation", map[string]any{
		"name":        "Priya Shah",
		"studentName": "Dev",
		"subject":     "Physics",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]any)
	if data["parentName"] != "Priya Shah" {
		t.Errorf("parentName = %v, want Priya Shah", data["parentName"])
	}
	if data["childName"] != "Dev" {
		t.Errorf("childName = %v, want Dev", data["childName"])
	}
}

func TestSubmitManualMatchAcceptsPhoneAlias(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/manual-match", map[string]any{
		"parentName": "Omar Reyes",
		"phone":      "555-0100",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]any)
	if data["phoneNumber"] == nil || data["phoneNumber"] == "" {
		t.Errorf("expected phoneNumber populated from phone alias, got %v", data["phoneNumber"])
	}
}

func TestListRecordsRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/contact", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestListRecordsReturnsDocuments(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.records.Create(context.Background(), models.CollectionContacts, map[string]any{"name": "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.records.Create(context.Background(), models.CollectionContacts, map[string]any{"name": "B"}); err != nil {
		t.Fatal(err)
	}

	w := env.request(t, http.MethodGet, "/api/v1/contact", nil, adminToken(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	data, _ := decodeBody(t, w)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(data))
	}
}

func TestUpdateRecordNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPut, "/api/v1/contact/missing", map[string]any{"name": "Sara Lin"}, adminToken(t))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUpdateRecordMergesFields(t *testing.T) {
	env := newTestEnv(t)
	doc, err := env.records.Create(context.Background(), models.CollectionContacts, map[string]any{
		"name":    "Sara Lin",
		"subject": "Algebra",
		"status":  "Pending",
	})
	if err != nil {
		t.Fatal(err)
	}

	w := env.request(t, http.MethodPut, "/api/v1/contact/"+doc.ID, map[string]any{
		"name":   "Sara Lin",
		"status": "Resolved",
	}, adminToken(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	data := decodeBody(t, w)["data"].(map[string]any)
	if data["status"] != "Resolved" {
		t.Errorf("status = %v, want Resolved", data["status"])
	}
	if data["subject"] != "Algebra" {
		t.Errorf("merge dropped untouched field, subject = %v", data["subject"])
	}
	if got := env.events.events[len(env.events.events)-1]; got != "contacts:update" {
		t.Errorf("last event = %s, want contacts:update", got)
	}
}

func TestDeleteRecordRemovesDocument(t *testing.T) {
	env := newTestEnv(t)
	doc, err := env.records.Create(context.Background(), models.CollectionBookings, map[string]any{"name": "Priya"})
	if err != nil {
		t.Fatal(err)
	}

	w := env.request(t, http.MethodDelete, "/api/v1/consultation/"+doc.ID, nil, adminToken(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if n, _ := env.records.Count(context.Background(), models.CollectionBookings); n != 0 {
		t.Fatalf("expected record removed, %d left", n)
	}
	if got := env.events.events[len(env.events.events)-1]; got != "bookings:delete" {
		t.Errorf("last event = %s, want bookings:delete", got)
	}
}

func TestDeleteRecordNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodDelete, "/api/v1/manual-match/missing", nil, adminToken(t))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
