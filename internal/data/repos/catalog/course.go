package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, course *types.Course, tagNames []string) (*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

// Create upserts the named tags and stores the course with its tag links.
func (r *courseRepo) Create(dbc dbctx.Context, course *types.Course, tagNames []string) (*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	tags := make([]types.Tag, 0, len(tagNames))
	seen := map[string]bool{}
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag := types.Tag{}
		if err := transaction.WithContext(dbc.Ctx).
			Where("name = ?", name).
			FirstOrCreate(&tag, types.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	course.Tags = tags
	if err := transaction.WithContext(dbc.Ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *courseRepo) List(dbc dbctx.Context) ([]*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Course
	if err := withTree(transaction.WithContext(dbc.Ctx)).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}
	if err := withTree(transaction.WithContext(dbc.Ctx)).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// withTree preloads tags plus chapters and lessons in authored order.
func withTree(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Chapters", ordered).
		Preload("Chapters.Lessons", ordered)
}

func ordered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}
