package console

import (
	"time"

	"github.com/Spok95/school-console/internal/models"
)

// details: общие поля формации, класса и активности.
type details struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// readDetails спрашивает поля; cur != nil: правка с текущими значениями.
func (c *Console) readDetails(noun string, cur *details) (details, bool) {
	var d details
	var ok bool
	if cur == nil {
		if d.Title, ok = c.p.Line(noun + " title"); !ok {
			return d, false
		}
		if d.Description, ok = c.p.Line(noun + " description"); !ok {
			return d, false
		}
		if d.StartDate, ok = c.p.Date("Start date", nil); !ok {
			return d, false
		}
		if d.EndDate, ok = c.p.Date("End date", nil); !ok {
			return d, false
		}
		return d, true
	}
	if d.Title, ok = c.p.Edit(noun+" title", cur.Title); !ok {
		return d, false
	}
	if d.Description, ok = c.p.Edit(noun+" description", cur.Description); !ok {
		return d, false
	}
	if d.StartDate, ok = c.p.Date("Start date", &cur.StartDate); !ok {
		return d, false
	}
	if d.EndDate, ok = c.p.Date("End date", &cur.EndDate); !ok {
		return d, false
	}
	return d, true
}

// readRank: пустой ввод оставляет текущий ранг, "-" снимает его.
func (c *Console) readRank(current *models.Rank) (*models.Rank, bool) {
	for {
		s, ok := c.p.Edit("Rank (A-E)", models.RankString(current))
		if !ok {
			return nil, false
		}
		r, err := models.ParseRank(s)
		if err == nil {
			return r, true
		}
		c.p.Printf("rank must be one of A-E, or - to clear\n")
	}
}
