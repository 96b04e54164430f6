package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	ListByChapterID(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Lesson, error)
	CountByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListByChapterID(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if err := ordered(transaction.WithContext(dbc.Ctx)).
		Where("chapter_id = ?", chapterID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) CountByChapterID(dbc dbctx.Context, chapterID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("chapter_id = ?", chapterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
