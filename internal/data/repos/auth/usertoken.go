package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	SoftDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	return utr.getBy(dbc, "access_token IN ?", accessTokens)
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	return utr.getBy(dbc, "refresh_token IN ?", refreshTokens)
}

func (utr *userTokenRepo) getBy(dbc dbctx.Context, where string, values []string) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	var results []*types.UserToken
	if len(values) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where(where, values).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) SoftDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	if len(tokenIDs) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id IN ?", tokenIDs).
		Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("expires_at < ?", before).
		Delete(&types.UserToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		utr.log.Debug("purged expired tokens", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
