package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
)

func TestCourseRepoCreateWithTags(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	first, err := repo.Create(dbc, &types.Course{Title: "Algebra"}, []string{"algebra", " beginner ", "algebra", ""})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(first.Tags) != 2 {
		t.Fatalf("expected 2 unique tags, got %v", first.TagNames())
	}
	second, err := repo.Create(dbc, &types.Course{Title: "Geometry"}, []string{"beginner"})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Tags[0].ID != findTag(first.Tags, "beginner") {
		t.Fatalf("expected tag row to be reused")
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{first.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: got=%d err=%v", len(got), err)
	}
	names := got[0].TagNames()
	if len(names) != 2 || names[0] != "algebra" || names[1] != "beginner" {
		t.Fatalf("tags: got=%v", names)
	}

	all, err := repo.List(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: got=%d err=%v", len(all), err)
	}
}

func findTag(tags []types.Tag, name string) uuid.UUID {
	for _, tg := range tags {
		if tg.Name == name {
			return tg.ID
		}
	}
	return uuid.Nil
}

func TestChapterLessonContentOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	course := testutil.SeedCourse(t, ctx, tx, "Calculus")
	late := testutil.SeedChapter(t, ctx, tx, course.ID, 2)
	early := testutil.SeedChapter(t, ctx, tx, course.ID, 1)

	chapters := NewChapterRepo(db, log)
	list, err := chapters.ListByCourseID(dbc, course.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByCourseID: got=%d err=%v", len(list), err)
	}
	if list[0].ID != early.ID || list[1].ID != late.ID {
		t.Fatalf("chapters not in sort order")
	}
	if n, err := chapters.CountByCourseID(dbc, course.ID); err != nil || n != 2 {
		t.Fatalf("CountByCourseID: n=%d err=%v", n, err)
	}

	lessons := NewLessonRepo(db, log)
	created, err := lessons.Create(dbc, []*types.Lesson{
		{CourseID: course.ID, ChapterID: early.ID, Title: "b", SortOrder: 1},
		{CourseID: course.ID, ChapterID: early.ID, Title: "a", SortOrder: 0},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create lessons: err=%v", err)
	}
	ordered, err := lessons.ListByChapterID(dbc, early.ID)
	if err != nil || len(ordered) != 2 || ordered[0].Title != "a" {
		t.Fatalf("ListByChapterID: %+v err=%v", ordered, err)
	}

	contents := NewLessonContentRepo(db, log)
	if got, err := contents.MaxSortOrder(dbc, ordered[0].ID); err != nil || got != -1 {
		t.Fatalf("MaxSortOrder(empty): got=%d err=%v", got, err)
	}
	testutil.SeedContents(t, ctx, tx, ordered[0].ID, testutil.SampleLesson()...)
	rows, err := contents.ListByLessonID(dbc, ordered[0].ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByLessonID: got=%d err=%v", len(rows), err)
	}
	items, err := types.ContentItems(rows)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if items[1].Question == nil || len(items[1].Question.Options) != 3 {
		t.Fatalf("unexpected decoded item: %+v", items[1])
	}
	if got, err := contents.MaxSortOrder(dbc, ordered[0].ID); err != nil || got != 2 {
		t.Fatalf("MaxSortOrder: got=%d err=%v", got, err)
	}

	byID, err := lessons.GetByIDs(dbc, []uuid.UUID{ordered[0].ID})
	if err != nil || len(byID) != 1 {
		t.Fatalf("GetByIDs: err=%v", err)
	}
	if n, err := lessons.CountByChapterID(dbc, early.ID); err != nil || n != 2 {
		t.Fatalf("CountByChapterID: n=%d err=%v", n, err)
	}
}
