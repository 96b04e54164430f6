package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error)
	GetByIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Chapter, error)
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error)
	CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(chapters) == 0 {
		return []*types.Chapter{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Chapter
	if len(chapterIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", chapterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Chapter
	if err := ordered(transaction.WithContext(dbc.Ctx)).
		Where("course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) CountByCourseID(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Chapter{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
