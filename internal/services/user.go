package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	uid := ctxutil.UserID(ctx)
	if uid == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "Not authenticated")
	}
	users, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{uid})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user_not_found", "User not found")
	}
	return users[0], nil
}
