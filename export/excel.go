// Package export renders store collections as xlsx workbooks for download
// or cloud upload.
package export

import (
	"bytes"
	"fmt"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/sheetsync"
	"github.com/xuri/excelize/v2"
)

// CollectionWorkbook builds an xlsx workbook from a collection's documents
// using the same column layout the sheet mirror uses.
func CollectionWorkbook(moduleName string, docs []models.Document) (*bytes.Buffer, error) {
	var sampleFields map[string]any
	if len(docs) > 0 {
		sampleFields = docs[0].Fields
	}
	headers := sheetsync.Headers(moduleName, sampleFields)

	f := excelize.NewFile()
	const sheet = "Sheet1"

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i := range docs {
		row := sheetsync.MapToRow(moduleName, docs[i].Map(), headers)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}
