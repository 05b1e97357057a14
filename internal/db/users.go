package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/school-console/internal/models"
)

func scanUser(r rowScanner) (models.User, error) {
	var u models.User
	var role string
	err := r.Scan(&u.ID, &u.Name, &role)
	u.Role = models.Role(role)
	return u, err
}

func (s *Store) InsertUser(ctx context.Context, u *models.User) (int64, error) {
	u.Name = strings.TrimSpace(u.Name)
	if err := models.Validate(models.KindUser, u); err != nil {
		return 0, err
	}
	id, err := s.insertRow(ctx, models.KindUser, u.Name, string(u.Role))
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, p models.UserPatch) error {
	u, err := s.User(ctx, id)
	if err != nil {
		return err
	}
	wasStudent := u.IsStudent()
	p.Apply(u)
	u.Name = strings.TrimSpace(u.Name)
	if err := models.Validate(models.KindUser, u); err != nil {
		return err
	}
	if wasStudent && !u.IsStudent() {
		n, err := s.studentLinks(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return models.Validation(models.KindUser, "Update",
				fmt.Sprintf("user %d is still registered %d time(s); unregister before changing the role", id, n))
		}
	}
	return s.updateRow(ctx, models.KindUser, id, u.Name, string(u.Role))
}

func (s *Store) User(ctx context.Context, id int64) (*models.User, error) {
	return selectOne(ctx, s, models.KindUser, id, scanUser)
}

func (s *Store) Users(ctx context.Context, f Filter) ([]models.User, error) {
	return selectMany(ctx, s, models.KindUser, f, scanUser)
}

// Students: все пользователи с ролью student.
func (s *Store) Students(ctx context.Context) ([]models.User, error) {
	return s.Users(ctx, Where(Eq("role", string(models.Student))))
}

// Student загружает пользователя и проверяет, что он студент.
func (s *Store) Student(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsStudent() {
		return nil, models.Validation(models.KindUser, "Student", "user "+u.Name+" is not a student")
	}
	return u, nil
}

// studentLinks считает связи пользователя на всех трёх уровнях.
func (s *Store) studentLinks(ctx context.Context, id int64) (int, error) {
	total := 0
	for _, k := range []models.Kind{models.KindFormationLink, models.KindClassLink, models.KindActivityLink} {
		n, err := s.Count(ctx, k, Where(Eq("student_id", id)))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
