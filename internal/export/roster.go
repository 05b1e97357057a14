package export

import (
	"fmt"
	"time"

	"github.com/Spok95/school-console/internal/db"
)

func RosterFilename(at time.Time) string {
	return sanitizeFileName(fmt.Sprintf("users - %s.xlsx", at.Format("2006-01-02")))
}

// RosterWorkbook: один лист «Users», по строке на пользователя.
func RosterWorkbook(rows []db.RosterRow, at time.Time) (*Workbook, error) {
	sheet := SheetSpec{
		Title:  "Users",
		Header: []string{"ID", "Name", "Role", "Formations", "Classes", "Activities"},
	}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []any{r.ID, r.Name, string(r.Role), r.Formations, r.Classes, r.Activities})
	}
	return NewWorkbook(RosterFilename(at), []SheetSpec{sheet})
}
