package lookup

import (
	"context"
	"errors"
	"fmt"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

// NotFoundError names the entity that could not be resolved. It matches
// ErrNotFound under errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(entity, id string) error { return &NotFoundError{Entity: entity, ID: id} }

// Source reads the catalog. Get methods return (nil, nil) for a missing id;
// ids that are malformed for the source count as missing.
type Source interface {
	ListCourses(ctx context.Context) ([]*types.Course, error)
	GetCourse(ctx context.Context, courseID string) (*types.Course, error)
	ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error)
	GetChapter(ctx context.Context, chapterID string) (*types.Chapter, error)
	ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, lessonID string) (*types.Lesson, error)
	LessonContents(ctx context.Context, lessonID string) ([]content.Item, error)
}

type Resolved struct {
	Course   *types.Course
	Chapter  *types.Chapter
	Lesson   *types.Lesson
	Contents []content.Item
}

// Resolve finds a course, one of its chapters and one of that chapter's
// lessons, with the lesson's contents. Any missing or mismatched piece is a
// NotFoundError; source failures are returned as is.
func Resolve(ctx context.Context, src Source, courseID, chapterID, lessonID string) (*Resolved, error) {
	course, err := src.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("lookup course: %w", err)
	}
	if course == nil {
		return nil, notFound("Course", courseID)
	}
	chapter, err := src.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("lookup chapter: %w", err)
	}
	if chapter == nil || chapter.CourseID != course.ID {
		return nil, notFound("Chapter", chapterID)
	}
	lesson, err := src.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("lookup lesson: %w", err)
	}
	if lesson == nil || lesson.ChapterID != chapter.ID || lesson.CourseID != course.ID {
		return nil, notFound("Lesson", lessonID)
	}
	contents, err := src.LessonContents(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("lookup lesson content: %w", err)
	}
	return &Resolved{Course: course, Chapter: chapter, Lesson: lesson, Contents: contents}, nil
}
