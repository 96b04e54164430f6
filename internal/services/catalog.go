package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/modules/catalog"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/lookup"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

var errReadOnly = apierr.Conflict("catalog_read_only", errors.New("Catalog is read-only"))

type CreateCourseInput struct {
	Title       string
	Description string
	Image       string
	Tags        []string
}

type CreateChapterInput struct {
	Title       string
	Description string
	Image       string
}

type CreateLessonInput struct {
	Title       string
	Description string
}

// CatalogRepos is the write side of the catalog.
type CatalogRepos struct {
	Courses  repos.CourseRepo
	Chapters repos.ChapterRepo
	Lessons  repos.LessonRepo
	Contents repos.LessonContentRepo
}

type CatalogService interface {
	ListCourses(ctx context.Context, filter catalog.Filter) ([]*types.Course, error)
	AllTags(ctx context.Context) ([]string, error)
	GetCourse(ctx context.Context, courseID string) (*types.Course, error)
	ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error)
	ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error)
	LessonContent(ctx context.Context, lessonID string) ([]content.Item, error)

	CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	CreateChapter(ctx context.Context, courseID string, in CreateChapterInput) (*types.Chapter, error)
	CreateLesson(ctx context.Context, chapterID string, in CreateLessonInput) (*types.Lesson, error)
	AppendContent(ctx context.Context, lessonID string, items []content.Item) ([]content.Item, error)
	ReadOnly() bool
}

type catalogService struct {
	db     *gorm.DB
	log    *logger.Logger
	source lookup.Source
	repos  CatalogRepos
	// readOnly is set when reads come from the static seed catalog.
	readOnly bool
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, source lookup.Source, r CatalogRepos, readOnly bool) CatalogService {
	return &catalogService{
		db:       db,
		log:      log.With("service", "CatalogService"),
		source:   source,
		repos:    r,
		readOnly: readOnly,
	}
}

func (s *catalogService) ReadOnly() bool { return s.readOnly }

func (s *catalogService) ListCourses(ctx context.Context, filter catalog.Filter) ([]*types.Course, error) {
	courses, err := s.source.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if filter.IsEmpty() {
		return courses, nil
	}
	return filter.Apply(courses), nil
}

func (s *catalogService) AllTags(ctx context.Context) ([]string, error) {
	courses, err := s.source.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return catalog.AllTags(courses), nil
}

func (s *catalogService) GetCourse(ctx context.Context, courseID string) (*types.Course, error) {
	course, err := s.source.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}
	return course, nil
}

// ListChapters returns an empty list for an unknown course rather than a 404.
func (s *catalogService) ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error) {
	return s.source.ListChapters(ctx, courseID)
}

func (s *catalogService) ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error) {
	return s.source.ListLessons(ctx, chapterID)
}

func (s *catalogService) LessonContent(ctx context.Context, lessonID string) ([]content.Item, error) {
	return s.source.LessonContents(ctx, lessonID)
}

func (s *catalogService) CreateCourse(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	course := &types.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
	if uid := ctxutil.UserID(ctx); uid != uuid.Nil {
		course.AuthorID = &uid
	}
	created, err := s.repos.Courses.Create(dbctx.Context{Ctx: ctx}, course, in.Tags)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("Created course", "course_id", created.ID.String())
	return created, nil
}

func (s *catalogService) CreateChapter(ctx context.Context, courseID string, in CreateChapterInput) (*types.Chapter, error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	cid, err := uuid.Parse(courseID)
	if err != nil {
		return nil, apierr.NotFound("course_not_found", "Course not found")
	}
	var out *types.Chapter
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := s.repos.Courses.GetByIDs(dbc, []uuid.UUID{cid})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return apierr.NotFound("course_not_found", "Course not found")
		}
		n, err := s.repos.Chapters.CountByCourseID(dbc, cid)
		if err != nil {
			return err
		}
		ch := &types.Chapter{
			CourseID:    cid,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Image:       strings.TrimSpace(in.Image),
			SortOrder:   int(n),
		}
		if _, err := s.repos.Chapters.Create(dbc, []*types.Chapter{ch}); err != nil {
			return fmt.Errorf("create chapter: %w", err)
		}
		out = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogService) CreateLesson(ctx context.Context, chapterID string, in CreateLessonInput) (*types.Lesson, error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	chid, err := uuid.Parse(chapterID)
	if err != nil {
		return nil, apierr.NotFound("chapter_not_found", "Chapter not found")
	}
	var out *types.Lesson
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := s.repos.Chapters.GetByIDs(dbc, []uuid.UUID{chid})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return apierr.NotFound("chapter_not_found", "Chapter not found")
		}
		n, err := s.repos.Lessons.CountByChapterID(dbc, chid)
		if err != nil {
			return err
		}
		l := &types.Lesson{
			CourseID:    found[0].CourseID,
			ChapterID:   chid,
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			SortOrder:   int(n),
		}
		if _, err := s.repos.Lessons.Create(dbc, []*types.Lesson{l}); err != nil {
			return fmt.Errorf("create lesson: %w", err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendContent validates items and stores them after the lesson's existing
// content. It returns the lesson's full content afterwards.
func (s *catalogService) AppendContent(ctx context.Context, lessonID string, items []content.Item) ([]content.Item, error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	lid, err := uuid.Parse(lessonID)
	if err != nil {
		return nil, apierr.NotFound("lesson_not_found", "Lesson not found")
	}
	if len(items) == 0 {
		return nil, apierr.BadRequest("empty_content", errors.New("No content items given"))
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, apierr.BadRequest("invalid_content", fmt.Errorf("item %d: %w", i, err))
		}
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.appendContent(dbctx.Context{Ctx: ctx, Tx: tx}, lid, items)
	})
	if err != nil {
		return nil, err
	}
	return s.source.LessonContents(ctx, lessonID)
}

func (s *catalogService) appendContent(dbc dbctx.Context, lessonID uuid.UUID, items []content.Item) error {
	found, err := s.repos.Lessons.GetByIDs(dbc, []uuid.UUID{lessonID})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return apierr.NotFound("lesson_not_found", "Lesson not found")
	}
	last, err := s.repos.Contents.MaxSortOrder(dbc, lessonID)
	if err != nil {
		return err
	}
	rows := make([]*types.LessonContent, 0, len(items))
	for i, it := range items {
		row, err := types.NewLessonContent(lessonID, last+1+i, it)
		if err != nil {
			return apierr.BadRequest("invalid_content", err)
		}
		rows = append(rows, row)
	}
	if _, err := s.repos.Contents.Create(dbc, rows); err != nil {
		return fmt.Errorf("create lesson content: %w", err)
	}
	return nil
}
