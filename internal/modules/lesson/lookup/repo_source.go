package lookup

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
)

type RepoSource struct {
	Courses  repos.CourseRepo
	Chapters repos.ChapterRepo
	Lessons  repos.LessonRepo
	Contents repos.LessonContentRepo
}

func NewRepoSource(courses repos.CourseRepo, chapters repos.ChapterRepo, lessons repos.LessonRepo, contents repos.LessonContentRepo) *RepoSource {
	return &RepoSource{Courses: courses, Chapters: chapters, Lessons: lessons, Contents: contents}
}

func (s *RepoSource) ListCourses(ctx context.Context) ([]*types.Course, error) {
	return s.Courses.List(dbctx.Context{Ctx: ctx})
}

func (s *RepoSource) GetCourse(ctx context.Context, courseID string) (*types.Course, error) {
	id, ok := parseID(courseID)
	if !ok {
		return nil, nil
	}
	rows, err := s.Courses.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *RepoSource) ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error) {
	id, ok := parseID(courseID)
	if !ok {
		return []*types.Chapter{}, nil
	}
	return s.Chapters.ListByCourseID(dbctx.Context{Ctx: ctx}, id)
}

func (s *RepoSource) GetChapter(ctx context.Context, chapterID string) (*types.Chapter, error) {
	id, ok := parseID(chapterID)
	if !ok {
		return nil, nil
	}
	rows, err := s.Chapters.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *RepoSource) ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error) {
	id, ok := parseID(chapterID)
	if !ok {
		return []*types.Lesson{}, nil
	}
	return s.Lessons.ListByChapterID(dbctx.Context{Ctx: ctx}, id)
}

func (s *RepoSource) GetLesson(ctx context.Context, lessonID string) (*types.Lesson, error) {
	id, ok := parseID(lessonID)
	if !ok {
		return nil, nil
	}
	rows, err := s.Lessons.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (s *RepoSource) LessonContents(ctx context.Context, lessonID string) ([]content.Item, error) {
	id, ok := parseID(lessonID)
	if !ok {
		return []content.Item{}, nil
	}
	rows, err := s.Contents.ListByLessonID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	return types.ContentItems(rows)
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
