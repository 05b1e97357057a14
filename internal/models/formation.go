package models

import "time"

type Formation struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title" validate:"required"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date" validate:"gtefield=StartDate"`

	Classes []Class `db:"-"`
}

type FormationPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p FormationPatch) Apply(f *Formation) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		f.EndDate = *p.EndDate
	}
}

type Class struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title" validate:"required"`
	Description string    `db:"description"`
	FormationID int64     `db:"formation_id" validate:"gt=0"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date" validate:"gtefield=StartDate"`

	Formation  *Formation      `db:"-"`
	Activities []ClassActivity `db:"-"`
}

// ClassPatch не трогает formation_id: активности хранят его копию.
type ClassPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p ClassPatch) Apply(c *Class) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		c.EndDate = *p.EndDate
	}
}

type ClassActivity struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title" validate:"required"`
	Description string    `db:"description"`
	ClassID     int64     `db:"class_id" validate:"gt=0"`
	FormationID int64     `db:"formation_id" validate:"gt=0"`
	IsScored    bool      `db:"scored"`
	MaxScore    int       `db:"max_score" validate:"gte=0"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date" validate:"gtefield=StartDate"`

	Class     *Class     `db:"-"`
	Formation *Formation `db:"-"`
}

type ClassActivityPatch struct {
	Title       *string
	Description *string
	IsScored    *bool
	MaxScore    *int
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p ClassActivityPatch) Apply(a *ClassActivity) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.IsScored != nil {
		a.IsScored = *p.IsScored
	}
	if p.MaxScore != nil {
		a.MaxScore = *p.MaxScore
	}
	if p.StartDate != nil {
		a.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		a.EndDate = *p.EndDate
	}
}
