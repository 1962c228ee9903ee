package sheetsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/notify"
)

// fakeStore is an in-memory DocumentStore with write counting.
type fakeStore struct {
	docs   map[string]map[string]*models.Document
	order  map[string][]string
	nextID int
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:  map[string]map[string]*models.Document{},
		order: map[string][]string{},
	}
}

func (s *fakeStore) NewID() string {
	s.nextID++
	return fmt.Sprintf("gen%d", s.nextID)
}

func (s *fakeStore) List(ctx context.Context, collection string) ([]models.Document, error) {
	out := make([]models.Document, 0, len(s.order[collection]))
	for _, id := range s.order[collection] {
		out = append(out, *s.docs[collection][id])
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, collection string, docID string) (*models.Document, error) {
	doc, ok := s.docs[collection][docID]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (s *fakeStore) Sample(ctx context.Context, collection string) (*models.Document, error) {
	if ids := s.order[collection]; len(ids) > 0 {
		copied := *s.docs[collection][ids[0]]
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeStore) Set(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error) {
	s.writes++
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		copied[k] = v
	}
	if s.docs[collection] == nil {
		s.docs[collection] = map[string]*models.Document{}
	}
	if _, ok := s.docs[collection][docID]; !ok {
		s.order[collection] = append(s.order[collection], docID)
	}
	doc := &models.Document{ID: docID, Fields: copied, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.docs[collection][docID] = doc
	copiedDoc := *doc
	return &copiedDoc, nil
}

func (s *fakeStore) Update(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error) {
	existing, ok := s.docs[collection][docID]
	if !ok {
		return nil, errors.New("not found")
	}
	s.writes++
	for k, v := range fields {
		if k == "id" {
			continue
		}
		existing.Fields[k] = v
	}
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (s *fakeStore) seed(collection string, docID string, fields map[string]any) {
	_, _ = s.Set(context.Background(), collection, docID, fields)
	s.writes = 0
}

// fakeSheets holds sheet grids keyed by spreadsheet id.
type fakeSheets struct {
	sheets   map[string][][]string
	failRead map[string]bool
	writes   int
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{sheets: map[string][][]string{}, failRead: map[string]bool{}}
}

func (f *fakeSheets) FirstSheetName(ctx context.Context, spreadsheetID string) (string, error) {
	return "Sheet1", nil
}

func (f *fakeSheets) ReadAll(ctx context.Context, spreadsheetID string, sheetName string) ([][]string, error) {
	if f.failRead[spreadsheetID] {
		return nil, errors.New("quota exceeded")
	}
	src := f.sheets[spreadsheetID]
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeSheets) AppendRow(ctx context.Context, spreadsheetID string, sheetName string, row []string) error {
	f.writes++
	f.sheets[spreadsheetID] = append(f.sheets[spreadsheetID], append([]string(nil), row...))
	return nil
}

func (f *fakeSheets) UpdateRowByIndex(ctx context.Context, spreadsheetID string, sheetName string, rowIndex int, row []string) error {
	f.writes++
	grid := f.sheets[spreadsheetID]
	target := rowIndex + 1
	for len(grid) <= target {
		grid = append(grid, nil)
	}
	grid[target] = append([]string(nil), row...)
	f.sheets[spreadsheetID] = grid
	return nil
}

func (f *fakeSheets) EnsureHeader(ctx context.Context, spreadsheetID string, sheetName string, header []string) error {
	grid := f.sheets[spreadsheetID]
	if len(grid) > 0 && len(grid[0]) > 0 {
		return nil
	}
	f.writes++
	if len(grid) == 0 {
		f.sheets[spreadsheetID] = [][]string{append([]string(nil), header...)}
		return nil
	}
	grid[0] = append([]string(nil), header...)
	return nil
}

func (f *fakeSheets) ClearRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string) error {
	grid := f.sheets[spreadsheetID]
	for i := 1; i < len(grid); i++ {
		if len(grid[i]) > 0 && grid[i][0] == id {
			f.writes++
			grid[i] = make([]string, len(grid[i]))
			return nil
		}
	}
	return nil
}

func (f *fakeSheets) UpdateRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string, row []string) error {
	grid := f.sheets[spreadsheetID]
	for i := 1; i < len(grid); i++ {
		if len(grid[i]) > 0 && grid[i][0] == id {
			return f.UpdateRowByIndex(ctx, spreadsheetID, sheetName, i-1, row)
		}
	}
	return f.AppendRow(ctx, spreadsheetID, sheetName, row)
}

type fakeRepos struct {
	repos   []models.Repository
	touched []uint
}

func (f *fakeRepos) List(ctx context.Context) ([]models.Repository, error) {
	return append([]models.Repository(nil), f.repos...), nil
}

func (f *fakeRepos) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

type recordedEvent struct {
	Module string
	Action string
	ID     string
	Data   map[string]any
}

type recorder struct {
	events []recordedEvent
}

func (r *recorder) Publish(module string, action string, id string, data map[string]any) {
	r.events = append(r.events, recordedEvent{Module: module, Action: action, ID: id, Data: data})
}

func sheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id + "/edit#gid=0"
}

func newTestWorker(repos *fakeRepos, sheets *fakeSheets, store *fakeStore, events *recorder) *Worker {
	var notifier notify.Publisher = notify.Noop{}
	if events != nil {
		notifier = events
	}
	return &Worker{
		Store:    store,
		Sheets:   sheets,
		Repos:    repos,
		Notifier: notifier,
		Logger:   quietLogger(),
	}
}

func inquiriesHeader() []string {
	return []string{"ID", "Name", "Email", "Phone", "Subject", "Message", "Date", "Status"}
}

func TestSyncImportsBlankIDRow(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries Sheet", Category: "inquiries", URL: sheetURL("s1")},
	}}
	sheets.sheets["s1"] = [][]string{
		inquiriesHeader(),
		{"", "Alice", "a@x.com", "555", "Math", "need help", "2024-01-01", "New"},
	}

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	docs, _ := store.List(context.Background(), "contacts")
	if len(docs) != 1 {
		t.Fatalf("store has %d docs, want 1", len(docs))
	}
	doc := docs[0]
	if doc.Fields["name"] != "Alice" || doc.Fields["status"] != "New" {
		t.Errorf("doc fields = %v", doc.Fields)
	}

	// The allocated id must land back on the exact sheet row.
	if got := sheets.sheets["s1"][1][0]; got != doc.ID {
		t.Errorf("sheet row id = %q, want %q", got, doc.ID)
	}

	if len(events.events) != 1 || events.events[0].Action != "add" || events.events[0].Module != "contacts" {
		t.Errorf("events = %v", events.events)
	}
	if len(repos.touched) != 1 || repos.touched[0] != 1 {
		t.Errorf("touched = %v", repos.touched)
	}
}

func TestSyncExportsStoreDocuments(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "inquiries", URL: sheetURL("s1")},
	}}
	store.seed("contacts", "d1", map[string]any{
		"name": "Bob", "email": "b@x.com", "phone": "777",
		"subject": "Chem", "message": "hi", "date": "2024-02-02", "status": "New",
	})

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	grid := sheets.sheets["s1"]
	if len(grid) != 2 {
		t.Fatalf("sheet has %d rows, want header + 1", len(grid))
	}
	if grid[0][0] != "ID" || grid[0][1] != "Name" {
		t.Errorf("header = %v", grid[0])
	}
	if grid[1][0] != "d1" || grid[1][1] != "Bob" {
		t.Errorf("exported row = %v", grid[1])
	}
	// Export is not a data change, only sheet edits notify.
	if len(events.events) != 0 {
		t.Errorf("events = %v", events.events)
	}
}

func TestSyncSheetWinsOnConflict(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "inquiries", URL: sheetURL("s1")},
	}}
	store.seed("contacts", "d1", map[string]any{
		"name": "Alice", "email": "a@x.com", "phone": "1",
		"subject": "", "message": "", "date": "2024-01-01", "status": "New",
	})
	sheets.sheets["s1"] = [][]string{
		inquiriesHeader(),
		{"d1", "Alicia", "a@x.com", "1", "", "", "2024-01-01", "New"},
	}

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	doc, _ := store.Get(context.Background(), "contacts", "d1")
	if doc.Fields["name"] != "Alicia" {
		t.Errorf("name = %v, want sheet value Alicia", doc.Fields["name"])
	}
	if len(events.events) != 1 || events.events[0].Action != "update" {
		t.Errorf("events = %v", events.events)
	}
	// Row already holds the id; nothing to write back.
	if sheets.writes != 0 {
		t.Errorf("sheet writes = %d, want 0", sheets.writes)
	}
}

func TestSyncSecondPassIsIdempotent(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "inquiries", URL: sheetURL("s1")},
	}}
	sheets.sheets["s1"] = [][]string{
		inquiriesHeader(),
		{"", "Alice", "a@x.com", "555", "Math", "hi", "2024-01-01", "New"},
	}

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	storeWrites := store.writes
	sheetWrites := sheets.writes
	eventCount := len(events.events)

	w.SyncAll(context.Background())

	if store.writes != storeWrites {
		t.Errorf("second pass wrote to store: %d -> %d", storeWrites, store.writes)
	}
	if sheets.writes != sheetWrites {
		t.Errorf("second pass wrote to sheet: %d -> %d", sheetWrites, sheets.writes)
	}
	if len(events.events) != eventCount {
		t.Errorf("second pass emitted events: %v", events.events[eventCount:])
	}
}

func TestSyncSkipsClearedRows(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "inquiries", URL: sheetURL("s1")},
	}}
	sheets.sheets["s1"] = [][]string{
		inquiriesHeader(),
		{},
		{"", "", "", "", "", "", "", ""},
	}

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	docs, _ := store.List(context.Background(), "contacts")
	if len(docs) != 0 {
		t.Errorf("cleared rows were imported: %v", docs)
	}
	if sheets.writes != 0 || len(events.events) != 0 {
		t.Errorf("writes = %d, events = %v", sheets.writes, events.events)
	}
}

func TestSyncTargetFailureDoesNotStopPass(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	events := &recorder{}
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Broken", Category: "bookings", URL: sheetURL("bad")},
		{ID: 2, Name: "Inquiries", Category: "inquiries", URL: sheetURL("good")},
	}}
	sheets.failRead["bad"] = true
	sheets.sheets["good"] = [][]string{
		inquiriesHeader(),
		{"", "Alice", "a@x.com", "555", "Math", "hi", "2024-01-01", "New"},
	}

	w := newTestWorker(repos, sheets, store, events)
	w.SyncAll(context.Background())

	docs, _ := store.List(context.Background(), "contacts")
	if len(docs) != 1 {
		t.Errorf("healthy target did not sync, docs = %d", len(docs))
	}
	// Both targets get stamped, failed or not.
	if len(repos.touched) != 2 {
		t.Errorf("touched = %v", repos.touched)
	}
}

func TestSyncSkipsInvalidURL(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "inquiries", URL: "https://example.com/not-a-sheet"},
	}}

	w := newTestWorker(repos, sheets, store, nil)
	w.SyncAll(context.Background())

	if sheets.writes != 0 || store.writes != 0 {
		t.Errorf("writes happened for invalid url")
	}
	if len(repos.touched) != 1 {
		t.Errorf("touched = %v", repos.touched)
	}
}

func TestPushRecordUpdateAndDelete(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	repos := &fakeRepos{repos: []models.Repository{
		{ID: 1, Name: "Inquiries", Category: "contacts", URL: sheetURL("s1")},
	}}
	sheets.sheets["s1"] = [][]string{inquiriesHeader()}

	w := newTestWorker(repos, sheets, store, nil)

	data := map[string]any{
		"id": "d9", "name": "Nina", "email": "n@x.com", "phone": "9",
		"subject": "Bio", "message": "", "date": "2024-04-04", "status": "New",
	}
	w.PushRecord(context.Background(), "contacts", data, "add")

	grid := sheets.sheets["s1"]
	if len(grid) != 2 || grid[1][0] != "d9" {
		t.Fatalf("grid after add = %v", grid)
	}

	data["name"] = "Nina K"
	w.PushRecord(context.Background(), "contacts", data, "update")
	if sheets.sheets["s1"][1][1] != "Nina K" {
		t.Errorf("row after update = %v", sheets.sheets["s1"][1])
	}
	if len(sheets.sheets["s1"]) != 2 {
		t.Errorf("update duplicated the row: %v", sheets.sheets["s1"])
	}

	w.PushRecord(context.Background(), "contacts", data, "delete")
	row := sheets.sheets["s1"][1]
	if !rowEmpty(row) {
		t.Errorf("row after delete = %v", row)
	}
	// Soft delete keeps the grid length stable.
	if len(sheets.sheets["s1"]) != 2 {
		t.Errorf("delete removed the row: %v", sheets.sheets["s1"])
	}
}

func TestPushRecordNoLinkedSheetIsNoop(t *testing.T) {
	store := newFakeStore()
	sheets := newFakeSheets()
	repos := &fakeRepos{}

	w := newTestWorker(repos, sheets, store, nil)
	w.PushRecord(context.Background(), "contacts", map[string]any{"id": "x"}, "add")

	if sheets.writes != 0 {
		t.Errorf("writes = %d, want 0", sheets.writes)
	}
}
