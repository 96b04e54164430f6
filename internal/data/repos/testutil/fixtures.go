package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		IsActive:  true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	c := &types.Course{ID: uuid.New(), Title: title, Description: title + " description"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order int) *types.Chapter {
	tb.Helper()
	ch := &types.Chapter{ID: uuid.New(), CourseID: courseID, Title: "chapter", SortOrder: order}
	if err := tx.WithContext(ctx).Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, ch *types.Chapter, order int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{ID: uuid.New(), CourseID: ch.CourseID, ChapterID: ch.ID, Title: "lesson", SortOrder: order}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedContents stores items in order and returns the rows.
func SeedContents(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, items ...content.Item) []*types.LessonContent {
	tb.Helper()
	rows := make([]*types.LessonContent, 0, len(items))
	for i, it := range items {
		row, err := types.NewLessonContent(lessonID, i, it)
		if err != nil {
			tb.Fatalf("build content: %v", err)
		}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed content: %v", err)
		}
		rows = append(rows, row)
	}
	return rows
}

// SampleLesson is markdown, a multiple choice question with answer 1, and a
// short answer question with answer "4".
func SampleLesson() []content.Item {
	return []content.Item{
		content.NewMarkdown(content.Markdown{Text: "Welcome", Format: content.FormatPlain}),
		content.NewQuestion(content.Question{
			Format:        content.MultipleChoice,
			Question:      "Which is prime?",
			Options:       []string{"4", "5", "6"},
			CorrectAnswer: content.IndexAnswer(1),
			Explanation:   "5 has no divisors other than 1 and itself.",
		}),
		content.NewQuestion(content.Question{
			Format:        content.ShortAnswer,
			Question:      "2 + 2 = ?",
			CorrectAnswer: content.StringAnswer("4"),
		}),
	}
}
