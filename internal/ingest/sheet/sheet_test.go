package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var testAliases = Aliases{
	"customer_name": {"Customer Name", "اسم الزبون"},
	"rent_cost":     {"Total Rent"},
}

func TestReadMapsAliases(t *testing.T) {
	buf := workbook(t,
		[]any{},
		[]any{"اسم الزبون", "TOTAL_RENT", "Remarks", "total rent"},
		[]any{"Ali", 4500, "vip", 1},
		[]any{},
		[]any{"Omar", "1,200", nil, nil},
	)

	table, err := Read(buf, testAliases)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", table.Sheet)
	assert.Equal(t, []string{"customer_name", "rent_cost"}, table.Fields)
	assert.Equal(t, []string{"Remarks"}, table.Unmapped)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, 3, table.Rows[0].Number)
	assert.Equal(t, "Ali", table.Rows[0].Get("customer_name"))
	assert.Equal(t, "4500", table.Rows[0].Get("rent_cost"))

	assert.Equal(t, 5, table.Rows[1].Number)
	assert.Equal(t, "1,200", table.Rows[1].Get("rent_cost"))
	assert.Equal(t, "", table.Rows[1].Get("missing"))
}

func TestReadRejectsInvalidInput(t *testing.T) {
	_, err := Read(strings.NewReader("not a workbook"), testAliases)
	assert.ErrorIs(t, err, ErrInvalidWorkbook)

	_, err = Read(workbook(t), testAliases)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestHeaderKey(t *testing.T) {
	assert.Equal(t, "total rent", HeaderKey(" TOTAL__Rent "))
	assert.Equal(t, "start date", HeaderKey("start-date"))
	assert.Equal(t, "", HeaderKey("   "))
}
