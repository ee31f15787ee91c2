package workbook

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestInspect_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Matricula", "Nome"},
		{"1001", "Ana"},
		{"", ""},
		{"1002", "Bruno"},
	})

	summary, err := Inspect("lote.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, []string{"1001", "1002"}, summary.Matriculas)
}

func TestInspect_XLSXWithoutHeader(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"2001"},
		{"2002"},
	})

	summary, err := Inspect("LOTE.XLSX", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"2001", "2002"}, summary.Matriculas)
}

func TestInspect_CSV(t *testing.T) {
	data := []byte("\uFEFFmatricula;nome\n123;Ana\n\n456;Bruno\n")

	summary, err := Inspect("lista.csv", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, summary.Matriculas)
}

func TestInspect_HeaderAfterBlankRows(t *testing.T) {
	summary, err := Inspect("lista.csv", []byte("\nMatricula\n123\n456\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, []string{"123", "456"}, summary.Matriculas)

	data := buildXLSX(t, [][]interface{}{
		{""},
		{""},
		{"Matricula"},
		{"1001"},
	})
	summary, err = Inspect("lote.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001"}, summary.Matriculas)
}

func TestInspect_Errors(t *testing.T) {
	_, err := Inspect("lista.pdf", []byte("%PDF"))
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = Inspect("lista.xlsx", []byte("not a zip"))
	assert.ErrorContains(t, err, "failed to open xlsx")

	_, err = Inspect("lista.xls", []byte("not an ole2 file"))
	assert.Error(t, err)
}

func TestMatriculasFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matriculas.txt")
	require.NoError(t, os.WriteFile(path, []byte("10\n20\n"), 0644))

	matriculas, err := MatriculasFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20"}, matriculas)

	_, err = MatriculasFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
