package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName      = "Orders"
	currencyFormat = `_($* #,##0.00_);_($* (#,##0.00);_($* "-"??_);_(@_)`
	// Rows 1-3 hold the title, a spacer and the headings.
	firstDataRow = 4
)

// ContentTypeXLSX is the MIME type of WriteXLSX output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type columnWidth struct {
	from, to string
	width    float64
}

func (l Layout) widths() []columnWidth {
	if l == LayoutUniversity {
		return []columnWidth{
			{"A", "C", 15},
			{"D", "D", 6},
			{"E", "G", 15},
			{"H", "H", 25},
			{"I", "N", 15},
		}
	}
	return []columnWidth{
		{"A", "B", 15},
		{"C", "C", 35},
		{"D", "D", 25},
		{"E", "J", 15},
	}
}

// WriteXLSX renders t as a single-sheet workbook.
func WriteXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for _, w := range t.Layout.widths() {
		if err := f.SetColWidth(sheetName, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", styles.title); err != nil {
		return nil, fmt.Errorf("failed to style title: %w", err)
	}
	if err := f.SetRowHeight(sheetName, 1, 24); err != nil {
		return nil, fmt.Errorf("failed to size title row: %w", err)
	}

	heading := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		heading[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A3", &heading); err != nil {
		return nil, fmt.Errorf("failed to write heading: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve last column: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A3", lastCol+"3", styles.header); err != nil {
		return nil, fmt.Errorf("failed to style heading: %w", err)
	}

	for i, r := range t.Rows {
		row := make([]any, len(r))
		for j, v := range r {
			if d, ok := v.(decimal.Decimal); ok {
				row[j] = d.InexactFloat64()
				continue
			}
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, firstDataRow+i)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if len(t.Rows) > 0 {
		lastRow := firstDataRow + len(t.Rows) - 1
		firstMoney, err := excelize.ColumnNumberToName(len(t.Columns) - moneyColumns + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve money column: %w", err)
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", firstDataRow), fmt.Sprintf("%s%d", lastCol, lastRow), styles.basic); err != nil {
			return nil, fmt.Errorf("failed to style rows: %w", err)
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("%s%d", firstMoney, firstDataRow), fmt.Sprintf("%s%d", lastCol, lastRow), styles.currency); err != nil {
			return nil, fmt.Errorf("failed to style money cells: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title, header, basic, currency int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	}); err != nil {
		return s, fmt.Errorf("failed to create title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	if s.basic, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	}); err != nil {
		return s, fmt.Errorf("failed to create cell style: %w", err)
	}
	format := currencyFormat
	if s.currency, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 14},
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		CustomNumFmt: &format,
	}); err != nil {
		return s, fmt.Errorf("failed to create currency style: %w", err)
	}
	return s, nil
}
