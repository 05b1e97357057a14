package models

type Role string

const (
	Admin     Role = "admin"
	Inspector Role = "inspector"
	Teacher   Role = "teacher"
	Student   Role = "student"
)

// Roles in the order the console offers them.
var Roles = []Role{Student, Teacher, Inspector, Admin}

func (r Role) Valid() bool {
	switch r {
	case Admin, Inspector, Teacher, Student:
		return true
	}
	return false
}

type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name" validate:"required"`
	Role Role   `db:"role" validate:"required,oneof=admin inspector teacher student"`
}

func (u *User) IsStudent() bool { return u != nil && u.Role == Student }

type UserPatch struct {
	Name *string
	Role *Role
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
