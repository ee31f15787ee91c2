package workbook

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxRows bounds how much of a legacy .xls sheet is read
const maxRows = 100000

// Summary describes a matricula spreadsheet
type Summary struct {
	Rows       int
	Matriculas []string
}

// Inspect reads the first column of the first sheet. The first non-empty row is
// taken as a header and skipped when its first cell is not numeric.
func Inspect(name string, data []byte) (*Summary, error) {
	rows, err := readRows(name, data)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	seenFirst := false
	for _, row := range rows {
		value := firstCell(row)
		if value == "" {
			continue
		}
		first := !seenFirst
		seenFirst = true
		if first && !isNumeric(value) {
			continue
		}
		summary.Matriculas = append(summary.Matriculas, value)
	}
	summary.Rows = len(summary.Matriculas)

	return summary, nil
}

// MatriculasFromFile turns a spreadsheet or text file on disk into an identifier list
func MatriculasFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	summary, err := Inspect(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to read matriculas from %s: %w", path, err)
	}
	return summary.Matriculas, nil
}

func readRows(name string, data []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xls":
		return readXLSRows(data)
	case ".xlsx", ".xlsm":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open xlsx: %w", err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		return file.GetRows(sheetName)
	case ".csv", ".txt":
		return readTextRows(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// readXLSRows recovers from panics raised by the xls reader on malformed files
func readXLSRows(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("failed to open xls: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	return workbook.ReadAllCells(maxRows), nil
}

func readTextRows(data []byte) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\uFEFF")
		rows = append(rows, strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '\t'
		}))
	}
	return rows, scanner.Err()
}

func firstCell(row []string) string {
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			return cell
		}
	}
	return ""
}

func isNumeric(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}
