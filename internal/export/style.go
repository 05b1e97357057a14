package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// setWidths: эвристическая ширина по заголовку и первым 50 строкам, от 12 до 40.
func setWidths(f *excelize.File, sheet string, s SheetSpec) {
	for c := 1; c <= len(s.Header); c++ {
		maxim := visualLen(s.Header[c-1])
		for r := 0; r < min(50, len(s.Rows)); r++ {
			if c-1 >= len(s.Rows[r]) || s.Rows[r][c-1] == nil {
				continue
			}
			if l := visualLen(fmt.Sprint(s.Rows[r][c-1])); l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 1.1
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}
}

// StudentReportFilename / CohortReportFilename: человекочитаемые имена файлов.
func StudentReportFilename(studentName string, at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("scores - %s - %s.xlsx", cleanName(studentName), at.Format("2006-01-02")))
}

func CohortReportFilename(formationTitle string, at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("cohort - %s - %s.xlsx", cleanName(formationTitle), at.Format("2006-01-02")))
}

// colName: 1 -> A; 27 -> AA
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

// visualLen approximates text width by counting runes, treating tabs as 4 chars.
func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
		} else {
			n++
		}
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = invalidFileRe.ReplaceAllString(s, "_")
	return s
}

var invalidSheetRe = regexp.MustCompile(`[\\/:*?\[\]]+`)

// sheetTitle: Excel не допускает []:*?/\ и длину больше 31 символа.
func sheetTitle(s string) string {
	s = invalidSheetRe.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		s = "Sheet"
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
