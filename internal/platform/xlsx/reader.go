package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no worksheets")

const (
	frontColumn = 0
	backColumn  = 1
)

// Reader extracts card contents from XLSX workbooks.
type Reader struct {
	// MaxRows caps the number of cards read from one sheet. Zero means no limit.
	MaxRows int
}

// NewReader creates a Reader that reads at most maxRows cards.
func NewReader(maxRows int) *Reader {
	return &Reader{MaxRows: maxRows}
}

// ReadCards returns one CardContent per row of the first worksheet. When
// hasHeader is set the first row is skipped. Rows with an empty front or
// back are skipped.
func (r *Reader) ReadCards(src io.Reader, hasHeader bool) ([]domain.CardContent, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheets[0], err)
	}
	if hasHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	var cards []domain.CardContent
	for _, row := range rows {
		front := cell(row, frontColumn)
		back := cell(row, backColumn)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, domain.CardContent{Front: front, Back: back})
		if r.MaxRows > 0 && len(cards) == r.MaxRows {
			break
		}
	}
	return cards, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
