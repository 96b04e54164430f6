package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/yungbote/mathstep-backend/internal/data/drafts"
)

func TestDraftEditingAndPublish(t *testing.T) {
	e := newEnv(t)
	ctx := e.authed(t)

	d, err := e.draft.Get(ctx)
	if err != nil || len(d) != 0 {
		t.Fatalf("empty draft: got=%v err=%v", d, err)
	}
	d, _ = e.draft.AddBlock(ctx, drafts.BlockMarkdown)
	d, _ = e.draft.AddBlock(ctx, drafts.BlockMultipleChoice)
	d, err = e.draft.AddBlock(ctx, drafts.BlockShortAnswer)
	if err != nil || len(d) != 3 {
		t.Fatalf("AddBlock: got=%d err=%v", len(d), err)
	}
	md, mc, sa := d[0].ID, d[1].ID, d[2].ID

	if _, err := e.draft.UpdateBlock(ctx, md, "", json.RawMessage(`{"text":"Welcome"}`)); err != nil {
		t.Fatalf("UpdateBlock md: %v", err)
	}
	if _, err := e.draft.UpdateBlock(ctx, mc, "", json.RawMessage(`{"question":"Pick","options":["a","b"],"correctAnswer":1}`)); err != nil {
		t.Fatalf("UpdateBlock mc: %v", err)
	}
	if _, err := e.draft.UpdateBlock(ctx, sa, "", json.RawMessage(`{"question":"2+2","answer":"4"}`)); err != nil {
		t.Fatalf("UpdateBlock sa: %v", err)
	}
	d, err = e.draft.MoveBlock(ctx, sa, drafts.Up)
	if err != nil || d[1].ID != sa {
		t.Fatalf("MoveBlock: got=%v err=%v", d, err)
	}
	if _, err := e.draft.MoveBlock(ctx, "missing", drafts.Up); statusOf(err) != http.StatusNotFound {
		t.Fatalf("MoveBlock missing: got=%v", err)
	}

	course, _ := e.catSvc.CreateCourse(ctx, CreateCourseInput{Title: "C"})
	ch, _ := e.catSvc.CreateChapter(ctx, course.ID.String(), CreateChapterInput{Title: "Ch"})
	lesson, _ := e.catSvc.CreateLesson(ctx, ch.ID.String(), CreateLessonInput{Title: "L"})

	items, err := e.draft.Publish(ctx, lesson.ID.String())
	if err != nil || len(items) != 3 {
		t.Fatalf("Publish: got=%d err=%v", len(items), err)
	}
	if items[1].Question == nil || items[1].Question.Question != "2+2" {
		t.Fatalf("published order: %+v", items[1])
	}
	d, _ = e.draft.Get(ctx)
	if len(d) != 0 {
		t.Fatalf("draft not cleared after publish: %v", d)
	}
	if _, err := e.draft.Publish(ctx, lesson.ID.String()); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("publish empty: got=%v", err)
	}
}

func TestDraftSaveAndClear(t *testing.T) {
	e := newEnv(t)
	ctx := e.authed(t)
	d, err := e.draft.Save(ctx, drafts.Draft{{Type: drafts.BlockCode}})
	if err != nil || len(d) != 1 || d[0].ID == "" || string(d[0].Data) != `{"code":"","language":"javascript"}` {
		t.Fatalf("Save: got=%+v err=%v", d, err)
	}
	if _, err := e.draft.Save(ctx, drafts.Draft{{Type: "table"}}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("Save unknown type: got=%v", err)
	}
	if _, err := e.draft.Save(ctx, drafts.Draft{{ID: "a", Type: drafts.BlockCode}, {ID: "a", Type: drafts.BlockCode}}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("Save duplicate ids: got=%v", err)
	}
	if err := e.draft.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if d, _ := e.draft.Get(ctx); len(d) != 0 {
		t.Fatalf("draft after clear: %v", d)
	}
	if _, err := e.draft.Get(context.Background()); statusOf(err) != http.StatusUnauthorized {
		t.Fatalf("anonymous draft: got=%v", err)
	}
}
