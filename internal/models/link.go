package models

// Связи студент ↔ формация/класс/активность (many-to-many).

type FormationStudentLink struct {
	ID          int64 `db:"id"`
	StudentID   int64 `db:"student_id" validate:"gt=0"`
	FormationID int64 `db:"formation_id" validate:"gt=0"`
	Rank        *Rank `db:"rank" validate:"omitempty,oneof=A B C D E"`

	Student   *User      `db:"-"`
	Formation *Formation `db:"-"`
}

type ClassStudentLink struct {
	ID        int64 `db:"id"`
	StudentID int64 `db:"student_id" validate:"gt=0"`
	ClassID   int64 `db:"class_id" validate:"gt=0"`
	Rank      *Rank `db:"rank" validate:"omitempty,oneof=A B C D E"`

	Student *User  `db:"-"`
	Class   *Class `db:"-"`
}

type ClassActivityStudentLink struct {
	ID              int64 `db:"id"`
	StudentID       int64 `db:"student_id" validate:"gt=0"`
	ClassActivityID int64 `db:"class_activity_id" validate:"gt=0"`
	Score           *int  `db:"score" validate:"omitempty,gte=0"`

	Student  *User          `db:"-"`
	Activity *ClassActivity `db:"-"`
}

// EffectiveScore returns the score that counts for a, and whether it counts at all.
// Unscored activities always yield 0 and are excluded from aggregates.
func (l *ClassActivityStudentLink) EffectiveScore(a *ClassActivity) (int, bool) {
	if a == nil || !a.IsScored || l.Score == nil {
		return 0, false
	}
	return *l.Score, true
}

// RankPatch задаёт или снимает ранг (Clear=true → NULL).
type RankPatch struct {
	Rank  *Rank
	Clear bool
}

func (p RankPatch) apply(dst **Rank) {
	switch {
	case p.Clear:
		*dst = nil
	case p.Rank != nil:
		r := *p.Rank
		*dst = &r
	}
}

func (p RankPatch) ApplyFormation(l *FormationStudentLink) { p.apply(&l.Rank) }
func (p RankPatch) ApplyClass(l *ClassStudentLink)         { p.apply(&l.Rank) }

type ScorePatch struct {
	Score *int
	Clear bool
}

func (p ScorePatch) Apply(l *ClassActivityStudentLink) {
	switch {
	case p.Clear:
		l.Score = nil
	case p.Score != nil:
		s := *p.Score
		l.Score = &s
	}
}

func IntPtr(v int) *int { return &v }
