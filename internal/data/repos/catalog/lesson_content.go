package catalog

import (
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type LessonContentRepo interface {
	Create(dbc dbctx.Context, rows []*types.LessonContent) ([]*types.LessonContent, error)
	ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonContent, error)
	MaxSortOrder(dbc dbctx.Context, lessonID uuid.UUID) (int, error)
}

type lessonContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonContentRepo(db *gorm.DB, baseLog *logger.Logger) LessonContentRepo {
	return &lessonContentRepo{db: db, log: baseLog.With("repo", "LessonContentRepo")}
}

func (r *lessonContentRepo) Create(dbc dbctx.Context, rows []*types.LessonContent) ([]*types.LessonContent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.LessonContent{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonContentRepo) ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonContent, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonContent
	if err := transaction.WithContext(dbc.Ctx).
		Where("lesson_id = ?", lessonID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MaxSortOrder returns -1 when the lesson has no content yet.
func (r *lessonContentRepo) MaxSortOrder(dbc dbctx.Context, lessonID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var maxOrder sql.NullInt64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.LessonContent{}).
		Where("lesson_id = ?", lessonID).
		Select("MAX(sort_order)").
		Row().
		Scan(&maxOrder); err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return -1, nil
	}
	return int(maxOrder.Int64), nil
}
