package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetSpec описывает один лист: заголовок и строки. Значения пишутся как есть
// (числа остаются числами), nil: пустая ячейка.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
}

type Workbook struct {
	File *excelize.File
	Name string
}

func NewWorkbook(name string, sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %q: no sheets", name)
	}
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, s := range sheets {
		title := sheetTitle(s.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		// заголовки
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(title, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		// стиль заголовков + автофильтр
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(title, "A1", end, bold)
		_ = f.AutoFilter(title, "A1:"+end, nil)

		// строки
		for r, row := range s.Rows {
			for c, val := range row {
				if val == nil {
					continue
				}
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellValue(title, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		setWidths(f, title, s)
	}
	return &Workbook{File: f, Name: name}, nil
}

// Save пишет книгу в dir (по умолчанию временный каталог) и возвращает путь.
func (w *Workbook) Save(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}
	path := filepath.Join(dir, sanitizeFileName(w.Name))
	if err := w.File.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func (w *Workbook) Close() error { return w.File.Close() }
