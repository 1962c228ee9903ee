package sheetsync

import (
	"context"

	"github.com/sirupsen/logrus"
)

// PushRecord mirrors a single store-side change onto the linked sheet right
// away instead of waiting for the next pass. Best effort: any failure is
// logged and absorbed so the store write that triggered it never fails.
func (w *Worker) PushRecord(ctx context.Context, moduleName string, data map[string]any, action string) {
	repos, err := w.Repos.List(ctx)
	if err != nil {
		w.Logger.WithError(err).Warn("push skipped, cannot list repositories")
		return
	}

	repo := ResolveMirror(repos, moduleName, w.Logger)
	if repo == nil {
		w.Logger.WithField("module", moduleName).Warn("no sheet linked for module")
		return
	}

	spreadsheetID, err := ExtractSpreadsheetID(repo.URL)
	if err != nil {
		w.Logger.WithError(err).WithField("module", moduleName).Error("invalid spreadsheet url for module")
		return
	}

	sheetName, err := w.Sheets.FirstSheetName(ctx, spreadsheetID)
	if err != nil {
		w.Logger.WithError(err).WithField("module", moduleName).Error("push failed resolving sheet")
		return
	}

	id := cellString(data["id"])
	headers := Headers(moduleName, data)
	row := MapToRow(moduleName, data, headers)

	switch action {
	case "add", "update":
		// Update-by-id rather than a bare append so a retried add never
		// duplicates the row.
		err = w.Sheets.UpdateRowByID(ctx, spreadsheetID, sheetName, id, row)
	case "delete":
		err = w.Sheets.ClearRowByID(ctx, spreadsheetID, sheetName, id)
	default:
		w.Logger.WithFields(logrus.Fields{"module": moduleName, "action": action}).Warn("unknown push action")
		return
	}
	if err != nil {
		w.Logger.WithError(err).WithFields(logrus.Fields{
			"module": moduleName,
			"action": action,
			"id":     id,
		}).Error("push to sheet failed")
	}
}
