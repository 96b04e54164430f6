package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos/testutil"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/player"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/render"
)

func startSample(t *testing.T, e *testEnv) *PlayerView {
	t.Helper()
	ctx := context.Background()
	course := testutil.SeedCourse(t, ctx, e.db, "Algebra")
	ch := testutil.SeedChapter(t, ctx, e.db, course.ID, 0)
	l := testutil.SeedLesson(t, ctx, e.db, ch, 0)
	testutil.SeedContents(t, ctx, e.db, l.ID, testutil.SampleLesson()...)
	v, err := e.player.Start(ctx, course.ID.String(), ch.ID.String(), l.ID.String())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return v
}

func TestPlayerWalkthrough(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	v := startSample(t, e)
	id := v.SessionID
	if v.State != player.StateViewing || v.Total != 3 || v.Progress != 0 || v.CourseTitle != "Algebra" {
		t.Fatalf("start view: %+v", v)
	}
	if v.CurrentView == nil || v.CurrentView.Kind != render.KindMarkdown {
		t.Fatalf("current view: %+v", v.CurrentView)
	}

	if _, err := e.player.Check(ctx, id); statusOf(err) != http.StatusConflict {
		t.Fatalf("check on markdown: got=%v", err)
	}
	v, err := e.player.Continue(ctx, id)
	if err != nil || v.Index != 1 || v.Progress != 33 {
		t.Fatalf("continue: %+v err=%v", v, err)
	}
	if _, err := e.player.Continue(ctx, id); statusOf(err) != http.StatusConflict {
		t.Fatalf("continue unverified question: got=%v", err)
	}

	if v, err = e.player.Answer(ctx, id, 1, content.IndexAnswer(0)); err != nil {
		t.Fatalf("answer: %v", err)
	}
	v, err = e.player.Check(ctx, id)
	if err != nil || v.State != player.StateError || v.Correct == nil || *v.Correct {
		t.Fatalf("wrong check: %+v err=%v", v, err)
	}
	v, err = e.player.TryAgain(ctx, id)
	if err != nil || v.State != player.StateViewing || !v.Answer.Equal(content.IndexAnswer(0)) {
		t.Fatalf("try again: %+v err=%v", v, err)
	}
	_, _ = e.player.Check(ctx, id)
	v, err = e.player.Reveal(ctx, id)
	if err != nil || !v.Answer.Equal(content.IndexAnswer(1)) || v.State != player.StateViewing {
		t.Fatalf("reveal: %+v err=%v", v, err)
	}
	v, err = e.player.Check(ctx, id)
	if err != nil || v.State != player.StateChecking || !*v.Correct {
		t.Fatalf("right check: %+v err=%v", v, err)
	}
	v, err = e.player.Explanation(ctx, id)
	if err != nil || v.State != player.StateExplained || !strings.Contains(v.Explanation, "5 has no divisors") {
		t.Fatalf("explanation: %+v err=%v", v, err)
	}
	if v, err = e.player.Continue(ctx, id); err != nil || v.Index != 2 || !v.IsFinal {
		t.Fatalf("continue to final: %+v err=%v", v, err)
	}

	if _, err = e.player.Answer(ctx, id, 2, content.StringAnswer("4")); err != nil {
		t.Fatalf("answer short: %v", err)
	}
	if _, err = e.player.Check(ctx, id); err != nil {
		t.Fatalf("check short: %v", err)
	}
	v, err = e.player.Complete(ctx, id)
	if err != nil || v.State != player.StateComplete || v.Progress != 100 {
		t.Fatalf("complete: %+v err=%v", v, err)
	}
	if !strings.HasPrefix(v.NavigateTo, "/courses/") || v.Current != nil || len(v.Completed) != 3 {
		t.Fatalf("complete view: nav=%q current=%v completed=%d", v.NavigateTo, v.Current, len(v.Completed))
	}
	if again, err := e.player.Complete(ctx, id); err != nil || len(again.Completed) != 3 {
		t.Fatalf("repeat complete: %+v err=%v", again, err)
	}

	page, err := e.player.Page(ctx, id)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	html := string(page)
	for _, want := range []string{`aria-valuenow="100"`, "Back to course", "Which is prime?"} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestPlayerRejectedTransitionKeepsState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	v := startSample(t, e)
	if _, err := e.player.Answer(ctx, v.SessionID, 9, content.IndexAnswer(0)); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("out of range: got=%v", err)
	}
	if _, err := e.player.Complete(ctx, v.SessionID); statusOf(err) != http.StatusConflict {
		t.Fatalf("complete on first item: got=%v", err)
	}
	got, err := e.player.Get(ctx, v.SessionID)
	if err != nil || got.Index != 0 || got.State != player.StateViewing {
		t.Fatalf("state changed: %+v err=%v", got, err)
	}
}

func TestPlayerNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.player.Get(ctx, uuid.NewString()); statusOf(err) != http.StatusNotFound {
		t.Fatalf("unknown session: got=%v", err)
	}
	_, err := e.player.Start(ctx, uuid.NewString(), uuid.NewString(), uuid.NewString())
	if statusOf(err) != http.StatusNotFound || err.Error() != "Course not found" {
		t.Fatalf("unknown course: got=%v", err)
	}

	course := testutil.SeedCourse(t, ctx, e.db, "Empty")
	ch := testutil.SeedChapter(t, ctx, e.db, course.ID, 0)
	l := testutil.SeedLesson(t, ctx, e.db, ch, 0)
	if _, err := e.player.Start(ctx, course.ID.String(), ch.ID.String(), l.ID.String()); statusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("empty lesson: got=%v", err)
	}
	if _, err := e.player.Start(ctx, course.ID.String(), uuid.NewString(), l.ID.String()); err == nil || err.Error() != "Chapter not found" {
		t.Fatalf("unknown chapter: got=%v", err)
	}
}

func TestPlayerPaddedSessionIDSharesLock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := startSample(t, e).SessionID
	ps := e.player.(*playerService)

	unlock := ps.locks.Lock(id)
	done := make(chan error, 1)
	go func() {
		_, err := e.player.Continue(ctx, "  "+id+"\n")
		done <- err
	}()
	select {
	case err := <-done:
		unlock()
		t.Fatalf("padded id ran while the session was locked: err=%v", err)
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	if err := <-done; err != nil {
		t.Fatalf("continue: %v", err)
	}
	v, err := e.player.Get(ctx, id)
	if err != nil || v.Index != 1 {
		t.Fatalf("after continue: %+v err=%v", v, err)
	}
}
