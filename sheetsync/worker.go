package sheetsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/notify"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const lockTTL = 2 * time.Minute

// DocumentStore is the store surface the worker needs.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]models.Document, error)
	Get(ctx context.Context, collection string, docID string) (*models.Document, error)
	Set(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error)
	Update(ctx context.Context, collection string, docID string, fields map[string]any) (*models.Document, error)
	Sample(ctx context.Context, collection string) (*models.Document, error)
	NewID() string
}

// RepositoryDirectory lists mirror targets and records sync attempts.
type RepositoryDirectory interface {
	List(ctx context.Context) ([]models.Repository, error)
	TouchLastSync(ctx context.Context, id uint, at time.Time) error
}

// LockProvider resolves the distributed lock client at pass time, so the
// worker can be wired before Redis is connected.
type LockProvider func() *redislock.Client

// Worker runs reconciliation passes over every configured mirror target.
// Each pass pulls sheet edits into the store, then pushes store documents
// the sheet is missing.
type Worker struct {
	Store    DocumentStore
	Sheets   SheetAPI
	Repos    RepositoryDirectory
	Notifier notify.Publisher
	Locker   LockProvider
	Logger   *logrus.Logger
}

// SyncAll runs one pass over every mirror target. A failing target is
// logged and skipped; the rest of the pass continues. Each target is
// guarded by a distributed lock so overlapping passes, here or on another
// instance, never work the same sheet at once.
func (w *Worker) SyncAll(ctx context.Context) {
	repos, err := w.Repos.List(ctx)
	if err != nil {
		w.Logger.WithError(err).Error("sync pass aborted, cannot list repositories")
		return
	}

	for i := range repos {
		repo := repos[i]

		release, ok := w.acquireLock(ctx, repo.ID)
		if !ok {
			w.Logger.WithField("repository", repo.Name).Debug("sync lock held elsewhere, skipping target")
			continue
		}

		if err := w.syncRepository(ctx, repo); err != nil {
			w.Logger.WithError(err).WithField("repository", repo.Name).Error("sync failed for target")
		}

		// Stamp the attempt either way so the dashboard shows when the
		// target was last visited.
		if err := w.Repos.TouchLastSync(ctx, repo.ID, time.Now()); err != nil {
			w.Logger.WithError(err).WithField("repository", repo.Name).Warn("failed to stamp lastSync")
		}

		release()
	}
}

func (w *Worker) acquireLock(ctx context.Context, repoID uint) (func(), bool) {
	if w.Locker == nil {
		return func() {}, true
	}
	locker := w.Locker()
	if locker == nil {
		return func() {}, true
	}
	key := fmt.Sprintf("sheetsync:repo:%d", repoID)
	lock, err := locker.Obtain(ctx, key, lockTTL, nil)
	if err != nil {
		if !errors.Is(err, redislock.ErrNotObtained) {
			w.Logger.WithError(err).WithField("key", key).Warn("lock obtain failed")
		}
		return nil, false
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil {
			w.Logger.WithError(err).WithField("key", key).Warn("lock release failed")
		}
	}, true
}

func (w *Worker) syncRepository(ctx context.Context, repo models.Repository) error {
	ctx, span := otel.Tracer("sheetsync").Start(ctx, "syncRepository")
	span.SetAttributes(attribute.String("repository", repo.Name))
	defer span.End()

	spreadsheetID, err := ExtractSpreadsheetID(repo.URL)
	if err != nil {
		w.Logger.WithField("repository", repo.Name).Warn("skipping target with invalid sheet url")
		return nil
	}

	collection := CollectionForRepository(repo)
	if collection == "" {
		w.Logger.WithField("repository", repo.Name).Warn("skipping target with no collection binding")
		return nil
	}

	moduleName := repo.Category
	if moduleName == "" {
		moduleName = repo.Name
	}

	sheetName, err := w.Sheets.FirstSheetName(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	sheetRows, err := w.Sheets.ReadAll(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}

	sample, err := w.Store.Sample(ctx, collection)
	if err != nil {
		return err
	}
	var sampleFields map[string]any
	if sample != nil {
		sampleFields = sample.Fields
	}
	headers := Headers(moduleName, sampleFields)

	activeHeaders := headers
	var dataRows [][]string
	if len(sheetRows) > 0 {
		activeHeaders = sheetRows[0]
		dataRows = sheetRows[1:]
	}

	seen := make(map[string]bool, len(dataRows))
	for _, row := range dataRows {
		if len(row) > 0 && row[0] != "" {
			seen[row[0]] = true
		}
	}

	var imported, updated, exported int

	// Phase A: sheet rows into the store. The sheet wins on conflict.
	if len(sheetRows) > 1 {
		for i, row := range dataRows {
			if rowEmpty(row) {
				// Cleared rows stay in place to keep positions stable.
				// They are not deletions to import and not new records.
				continue
			}
			if row[0] == "" {
				// Operator-added row without an id: assign one, store the
				// document, and write the id back onto the exact row.
				id := w.Store.NewID()
				withID := setCell(row, 0, id)
				rowObj := MapFromRow(moduleName, withID, activeHeaders)
				if rowObj == nil {
					continue
				}
				if _, err := w.Store.Set(ctx, collection, id, rowObj); err != nil {
					return err
				}
				if err := w.Sheets.UpdateRowByIndex(ctx, spreadsheetID, sheetName, i, withID); err != nil {
					return err
				}
				seen[id] = true
				imported++
				w.Notifier.Publish(collection, "add", id, rowObj)
				continue
			}

			rowID := row[0]
			rowObj := MapFromRow(moduleName, row, activeHeaders)
			if rowObj == nil {
				continue
			}

			existing, err := w.Store.Get(ctx, collection, rowID)
			if err != nil {
				return err
			}
			if existing == nil {
				if _, err := w.Store.Set(ctx, collection, rowID, rowObj); err != nil {
					return err
				}
				imported++
				w.Notifier.Publish(collection, "add", rowID, rowObj)
				continue
			}
			if fieldsChanged(existing.Fields, rowObj) {
				if _, err := w.Store.Update(ctx, collection, rowID, rowObj); err != nil {
					return err
				}
				updated++
				w.Notifier.Publish(collection, "update", rowID, rowObj)
			}
		}
	}

	// Phase B: store documents the sheet has never seen get appended. The
	// header is written once, only when row 1 is still empty.
	docs, err := w.Store.List(ctx, collection)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		if err := w.Sheets.EnsureHeader(ctx, spreadsheetID, sheetName, headers); err != nil {
			return err
		}
		for i := range docs {
			doc := docs[i]
			if seen[doc.ID] {
				continue
			}
			row := MapToRow(moduleName, doc.Map(), headers)
			if err := w.Sheets.AppendRow(ctx, spreadsheetID, sheetName, row); err != nil {
				return err
			}
			seen[doc.ID] = true
			exported++
		}
	}

	if imported+updated+exported > 0 {
		w.Logger.WithFields(logrus.Fields{
			"repository": repo.Name,
			"collection": collection,
			"imported":   imported,
			"updated":    updated,
			"exported":   exported,
		}).Info("sync pass applied changes")
	}
	return nil
}

// fieldsChanged reports whether any sheet-side field differs from the
// stored value. Only keys present on the sheet side are compared, so store
// fields the sheet does not carry never count as drift.
func fieldsChanged(existing map[string]any, incoming map[string]any) bool {
	for key, val := range incoming {
		if key == "id" {
			continue
		}
		if !jsonEqual(existing[key], val) {
			return true
		}
	}
	return false
}

func jsonEqual(a any, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func setCell(row []string, i int, value string) []string {
	out := make([]string, len(row))
	copy(out, row)
	for len(out) <= i {
		out = append(out, "")
	}
	out[i] = value
	return out
}
