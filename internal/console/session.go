package console

import (
	"context"
	"fmt"

	"github.com/Spok95/school-console/internal/ctxutil"
	"github.com/Spok95/school-console/internal/models"
)

// Session: кто вошёл в консоль. Без входа доступно всё, как у администратора.
type Session struct {
	User *models.User
}

func (s Session) SignedIn() bool  { return s.User != nil }
func (s Session) IsStudent() bool { return s.User.IsStudent() }

// CanAdminister: пользователи, правка и удаление формаций, генерация и очистка данных.
func (s Session) CanAdminister() bool { return s.User == nil || s.User.Role == models.Admin }

// CanManage: правка классов и активностей, ранги и оценки.
func (s Session) CanManage() bool { return !s.IsStudent() }

func (s Session) Context(ctx context.Context) context.Context {
	return ctxutil.WithActor(ctx, s.User)
}

func (s Session) String() string {
	if s.User == nil {
		return ""
	}
	return fmt.Sprintf(" [%s - %s]", s.User.Name, s.User.Role)
}
