package sheets

import (
	"google.golang.org/api/sheets/v4"
)

const columnCount = 13 // A..M

// Column indexes within the row schema.
const (
	colPrice        = 3  // D
	colSqFt         = 6  // G
	colPricePerSqFt = 7  // H
	colDateAdded    = 12 // M
)

// formatRequests rebuilds the destination's presentation rules against
// the current total row count: emphasized frozen header, currency/number
// formats on the numeric columns, a date format on Date Added, and a
// basic filter over the whole range.
func formatRequests(totalRows int64) []*sheets.Request {
	return []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columnCount,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		numberFormat(colPrice, totalRows, "CURRENCY", "$#,##0"),
		numberFormat(colSqFt, totalRows, "NUMBER", "#,##0"),
		numberFormat(colPricePerSqFt, totalRows, "CURRENCY", "$#,##0"),
		numberFormat(colDateAdded, totalRows, "DATE", "yyyy-mm-dd"),
		{
			SetBasicFilter: &sheets.SetBasicFilterRequest{
				Filter: &sheets.BasicFilter{
					Range: &sheets.GridRange{
						StartRowIndex:    0,
						EndRowIndex:      totalRows,
						StartColumnIndex: 0,
						EndColumnIndex:   columnCount,
					},
				},
			},
		},
	}
}

func numberFormat(column, totalRows int64, formatType, pattern string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				StartRowIndex:    1,
				EndRowIndex:      totalRows,
				StartColumnIndex: column,
				EndColumnIndex:   column + 1,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{Type: formatType, Pattern: pattern},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}
