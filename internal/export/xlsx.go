// Package export serializes a filtered collection view into a
// spreadsheet for download. The column set is fixed per entity and
// declared as JMESPath expressions over the entity's JSON form, so the
// field-to-column mapping is data, not code. Cells whose expression
// resolves to nothing render the literal "N/A" placeholder rather than
// being omitted.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/xuri/excelize/v2"
)

// Placeholder is written into cells with no underlying value.
const Placeholder = "N/A"

// Column maps one spreadsheet column to a JMESPath expression.
type Column struct {
	Header string
	Expr   string
}

// File is a rendered spreadsheet ready for download.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename builds the download name for an entity export:
// "<entity>-YYYY-MM-DD.xlsx".
func Filename(entity string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", entity, now.Format("2006-01-02"))
}

// Spreadsheet renders rows into an xlsx workbook. Rows must be
// JSON-marshalable entities; each is round-tripped through JSON so the
// column expressions see the same shape the backend serves.
func Spreadsheet[T any](entity string, columns []Column, rows []T) (*File, error) {
	if len(columns) == 0 {
		return nil, errors.New("export: at least one column is required")
	}

	for _, col := range columns {
		if _, err := jmespath.Compile(col.Expr); err != nil {
			return nil, fmt.Errorf("export: compile column %q: %w", col.Header, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("export: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, fmt.Errorf("export: write header: %w", err)
		}
	}

	for rowIdx, row := range rows {
		doc, err := toDocument(row)
		if err != nil {
			return nil, fmt.Errorf("export: row %d: %w", rowIdx, err)
		}
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("export: data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue(col.Expr, doc)); err != nil {
				return nil, fmt.Errorf("export: write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: render workbook: %w", err)
	}

	return &File{
		Name:        Filename(entity, time.Now()),
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

// toDocument round-trips an entity through JSON into the generic shape
// JMESPath evaluates against.
func toDocument(row any) (any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// cellValue evaluates one column expression. Evaluation errors and empty
// results both collapse to the placeholder: a broken mapping must never
// abort a whole export.
func cellValue(expr string, doc any) string {
	v, err := jmespath.Search(expr, doc)
	if err != nil || v == nil {
		return Placeholder
	}

	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return Placeholder
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		if len(t) == 0 {
			return Placeholder
		}
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, fmt.Sprintf("%v", e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}
