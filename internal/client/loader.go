package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrLessonNotFound  = errors.New("lesson not found")
)

// LessonPage is everything the lesson page shows around the player.
type LessonPage struct {
	Course   *types.Course
	Chapter  *types.Chapter
	Lesson   *types.Lesson
	Contents []content.Item
}

// LoadLesson fetches course, chapters, lessons and content in that order and
// stops at the first miss. Calls are not cancelled when the caller moves on
// to another lesson; a late result for an abandoned id is still returned.
func (c *Client) LoadLesson(ctx context.Context, courseID, chapterID, lessonID string) (*LessonPage, error) {
	course, err := c.GetCourse(ctx, courseID)
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.NotFound() {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	chapters, err := c.ListChapters(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var chapter *types.Chapter
	wantChapter, perr := uuid.Parse(chapterID)
	for _, ch := range chapters {
		if perr == nil && ch.ID == wantChapter {
			chapter = ch
			break
		}
	}
	if chapter == nil {
		return nil, ErrChapterNotFound
	}
	lessons, err := c.ListLessons(ctx, chapter.ID.String())
	if err != nil {
		return nil, err
	}
	var lesson *types.Lesson
	wantLesson, perr := uuid.Parse(lessonID)
	for _, l := range lessons {
		if perr == nil && l.ID == wantLesson {
			lesson = l
			break
		}
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	contents, err := c.GetLessonContent(ctx, lesson.ID.String())
	if err != nil {
		return nil, err
	}
	return &LessonPage{Course: course, Chapter: chapter, Lesson: lesson, Contents: contents}, nil
}

// ChapterTree is a chapter with its lessons.
type ChapterTree struct {
	Chapter *types.Chapter
	Lessons []*types.Lesson
}

// LoadCourseTree fetches a course outline, loading each chapter's lessons
// concurrently. Chapter order is preserved.
func (c *Client) LoadCourseTree(ctx context.Context, courseID string) (*types.Course, []ChapterTree, error) {
	course, err := c.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	chapters, err := c.ListChapters(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	tree := make([]ChapterTree, len(chapters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ch := range chapters {
		i, ch := i, ch
		tree[i].Chapter = ch
		g.Go(func() error {
			lessons, err := c.ListLessons(gctx, ch.ID.String())
			if err != nil {
				return err
			}
			tree[i].Lessons = lessons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return course, tree, nil
}
