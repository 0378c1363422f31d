package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quinceleaf/conference-catering-browser/internal/core"
)

func sampleReport(flag string) *core.BillingReport {
	return &core.BillingReport{
		Conditions: "placed by customers at <strong>State University</strong>, between <strong>January 02 and March 04, 2024</strong>",
		TenantFlag: flag,
		Records: []core.BillingRecord{
			{
				OrderID:          1,
				InvoiceNumber:    "INV-12800",
				CustomerName:     "Ada Lovelace",
				EventDate:        time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
				PaymentReference: "1001-02-AW3-5400-ORG9",
				TotalCost:        decimal.RequireFromString("245.00"),
				FoodInternal:     decimal.RequireFromString("195.00"),
				Rentals:          decimal.RequireFromString("50"),
			},
		},
	}
}

func TestLayoutColumns(t *testing.T) {
	assert.Equal(t, []string{
		"Event Date", "Inv. Number", "Payment Ref.", "Customer", "Total Charges",
		"Food (Int.)", "Food (Ext.)", "Alcohol/Beverage", "Labor", "Rentals",
	}, LayoutGeneral.Columns())

	assert.Equal(t, []string{
		"Event Date", "Inv. Number", "Project", "Task", "Award", "Expenditure", "Organization",
		"Customer", "Total Charges", "Food (Int.)", "Food (Ext.)", "Alcohol/Beverage", "Labor", "Rentals",
	}, LayoutUniversity.Columns())
}

func TestSplitPTAEO(t *testing.T) {
	tests := []struct {
		in   string
		want [5]string
	}{
		{"1001-02-AW3-5400-ORG9", [5]string{"1001", "02", "AW3", "5400", "ORG9"}},
		{"1001-02", [5]string{"1001", "02", "", "", ""}},
		{"", [5]string{"", "", "", "", ""}},
		{"a-b-c-d-e-f", [5]string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPTAEO(tt.in))
		})
	}
}

func TestBuildBillingTable(t *testing.T) {
	t.Run("general layout", func(t *testing.T) {
		table := BuildBillingTable(sampleReport(""))

		assert.Equal(t, LayoutGeneral, table.Layout)
		assert.Equal(t, "Orders - placed by customers at State University, between January 02 and March 04, 2024", table.Title)
		require.Len(t, table.Rows, 1)
		row := table.Rows[0]
		require.Len(t, row, len(table.Columns))
		assert.Equal(t, "2024-02-14", row[0])
		assert.Equal(t, "INV-12800", row[1])
		assert.Equal(t, "1001-02-AW3-5400-ORG9", row[2])
		assert.Equal(t, "Ada Lovelace", row[3])
		assert.True(t, row[4].(decimal.Decimal).Equal(decimal.NewFromInt(245)))
		assert.True(t, row[9].(decimal.Decimal).Equal(decimal.NewFromInt(50)))
	})

	t.Run("university layout", func(t *testing.T) {
		table := BuildBillingTable(sampleReport(core.TenantFlagUniversity))

		assert.Equal(t, LayoutUniversity, table.Layout)
		row := table.Rows[0]
		require.Len(t, row, len(table.Columns))
		assert.Equal(t, []any{"1001", "02", "AW3", "5400", "ORG9"}, row[2:7])
		assert.Equal(t, "Ada Lovelace", row[7])
	})

	t.Run("no records", func(t *testing.T) {
		table := BuildBillingTable(&core.BillingReport{})
		assert.Equal(t, "Orders - ", table.Title)
		assert.Empty(t, table.Rows)
	})
}

func TestWriteCSV(t *testing.T) {
	out := string(WriteCSV(BuildBillingTable(sampleReport(""))))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], `"Orders - placed by customers at State University, between January 02 and March 04, 2024",""`))
	assert.Equal(t, strings.Repeat(`"",`, 9)+`""`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `"Event Date","Inv. Number","Payment Ref."`))
	assert.Equal(t,
		`"2024-02-14","INV-12800","1001-02-AW3-5400-ORG9","Ada Lovelace","245.00","195.00","0.00","0.00","0.00","50.00"`,
		lines[3])
}

func TestWriteCSV_EscapesQuotes(t *testing.T) {
	table := Table{Columns: []string{"A"}, Rows: [][]any{{`say "hi"`}}}
	out := string(WriteCSV(table))
	assert.Contains(t, out, `"say ""hi"""`)
}

func TestWriteCSV_NeutralisesFormulaCells(t *testing.T) {
	report := sampleReport("")
	report.Records[0].PaymentReference = `=HYPERLINK("http://x","y")`
	report.Records[0].CustomerName = "+cmd|' /C calc'!A0"

	out := string(WriteCSV(BuildBillingTable(report)))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], `"'=HYPERLINK(""http://x"",""y"")"`)
	assert.Contains(t, lines[3], `"'+cmd|' /C calc'!A0"`)
	assert.Contains(t, lines[3], `"245.00"`)
}

func TestCSVSafe(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"Ada":      "Ada",
		"=1+1":     "'=1+1",
		"-5":       "'-5",
		"@SUM(A1)": "'@SUM(A1)",
		"\tpadded": "'\tpadded",
		"plain=ok": "plain=ok",
	}
	for in, want := range cases {
		assert.Equal(t, want, csvSafe(in), "input %q", in)
	}
}

func TestWriteXLSX(t *testing.T) {
	data, err := WriteXLSX(BuildBillingTable(sampleReport(core.TenantFlagUniversity)))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Orders"}, f.GetSheetList())

	title, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(title, "Orders - placed by customers at State University"))

	heading, err := f.GetCellValue("Orders", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Project", heading)

	invoice, err := f.GetCellValue("Orders", "B4")
	require.NoError(t, err)
	assert.Equal(t, "INV-12800", invoice)

	total, err := f.GetCellValue("Orders", "I4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "245", total)

	width, err := f.GetColWidth("Orders", "H")
	require.NoError(t, err)
	assert.Equal(t, 25.0, width)
}

func TestWriteXLSX_Empty(t *testing.T) {
	data, err := WriteXLSX(BuildBillingTable(&core.BillingReport{}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
