package models

// Kind: тип записи в хранилище.
type Kind string

const (
	KindFormation     Kind = "formation"
	KindClass         Kind = "class"
	KindActivity      Kind = "class_activity"
	KindUser          Kind = "user"
	KindFormationLink Kind = "formation_student_link"
	KindClassLink     Kind = "class_student_link"
	KindActivityLink  Kind = "class_activity_student_link"
)

// Kinds lists every record kind in parent-first order.
var Kinds = []Kind{
	KindFormation, KindClass, KindActivity, KindUser,
	KindFormationLink, KindClassLink, KindActivityLink,
}

// IsLink reports whether k is a student join row.
func (k Kind) IsLink() bool {
	switch k {
	case KindFormationLink, KindClassLink, KindActivityLink:
		return true
	}
	return false
}

func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}
