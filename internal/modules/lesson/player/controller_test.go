package player

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

func sampleLesson() []content.Item {
	return []content.Item{
		content.NewMarkdown(content.Markdown{Text: "Intro", Format: content.FormatPlain}),
		content.NewQuestion(content.Question{
			Format:        content.MultipleChoice,
			Question:      "Pick b",
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: content.IndexAnswer(1),
			Explanation:   "b is the second option",
		}),
		content.NewQuestion(content.Question{
			Format:        content.ShortAnswer,
			Question:      "2+2?",
			CorrectAnswer: content.StringAnswer("4"),
		}),
	}
}

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := New("c1", sampleLesson())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsEmptyLesson(t *testing.T) {
	if _, err := New("c1", nil); !errors.Is(err, ErrEmptyLesson) {
		t.Fatalf("got=%v want=%v", err, ErrEmptyLesson)
	}
}

func TestWalkthroughToCompletion(t *testing.T) {
	c := newController(t)
	if c.State() != StateViewing || c.Progress() != 0 {
		t.Fatalf("initial: state=%s progress=%d", c.State(), c.Progress())
	}

	mustNil(t, c.Continue())
	if c.CurrentIndex() != 1 {
		t.Fatalf("index after markdown: got=%d want=1", c.CurrentIndex())
	}
	if got := c.Progress(); got != 33 {
		t.Fatalf("progress: got=%d want=33", got)
	}

	mustNil(t, c.Answer(1, content.IndexAnswer(1)))
	ok, err := c.CheckAnswer()
	mustNil(t, err)
	if !ok || c.State() != StateChecking {
		t.Fatalf("check: ok=%v state=%s", ok, c.State())
	}
	mustNil(t, c.Continue())
	if c.CurrentIndex() != 2 || !c.IsFinal() {
		t.Fatalf("index: got=%d final=%v", c.CurrentIndex(), c.IsFinal())
	}

	mustNil(t, c.Answer(2, content.StringAnswer("4")))
	if ok, err := c.CheckAnswer(); err != nil || !ok {
		t.Fatalf("check short answer: ok=%v err=%v", ok, err)
	}
	mustNil(t, c.Continue())
	if c.CurrentIndex() != 2 {
		t.Fatalf("continue on last must not move: got=%d", c.CurrentIndex())
	}
	if c.State() != StateComplete || c.Progress() != 100 {
		t.Fatalf("expected complete: state=%s progress=%d", c.State(), c.Progress())
	}

	target, err := c.CompleteLesson()
	mustNil(t, err)
	if target != "/courses/c1" {
		t.Fatalf("target: got=%q", target)
	}
	assertNoDuplicates(t, c.Completed())
	if len(c.Completed()) != 3 {
		t.Fatalf("completed: got=%d want=3", len(c.Completed()))
	}
	if err := c.Continue(); !errors.Is(err, ErrLessonComplete) {
		t.Fatalf("continue after complete: got=%v", err)
	}
}

func TestIncorrectAnswerThenTryAgainKeepsAnswer(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	mustNil(t, c.Answer(1, content.IndexAnswer(0)))

	ok, err := c.CheckAnswer()
	mustNil(t, err)
	if ok || c.State() != StateError {
		t.Fatalf("check: ok=%v state=%s", ok, c.State())
	}
	mustNil(t, c.TryAgain())
	if c.State() != StateViewing {
		t.Fatalf("state after try again: %s", c.State())
	}
	if got := c.AnswerFor(1); !got.Equal(content.IndexAnswer(0)) {
		t.Fatalf("answer after try again: got=%v want=0", got)
	}
}

func TestCheckAnswerIsStrict(t *testing.T) {
	cases := []struct {
		name   string
		answer *content.Answer
		want   bool
	}{
		{"missing", nil, false},
		{"string index", ptr(content.StringAnswer("1")), false},
		{"wrong index", ptr(content.IndexAnswer(2)), false},
		{"right index", ptr(content.IndexAnswer(1)), true},
	}
	for _, tc := range cases {
		c := newController(t)
		mustNil(t, c.Continue())
		if tc.answer != nil {
			mustNil(t, c.Answer(1, *tc.answer))
		}
		got, err := c.CheckAnswer()
		mustNil(t, err)
		if got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func ptr(a content.Answer) *content.Answer { return &a }

func TestCheckAnswerOnNonQuestion(t *testing.T) {
	c := newController(t)
	if _, err := c.CheckAnswer(); !errors.Is(err, ErrNotQuestion) {
		t.Fatalf("got=%v want=%v", err, ErrNotQuestion)
	}
	if c.State() != StateViewing {
		t.Fatalf("state changed: %s", c.State())
	}
}

func TestAnswerWhileCheckingResetsToViewing(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	mustNil(t, c.Answer(1, content.IndexAnswer(0)))
	if _, err := c.CheckAnswer(); err != nil {
		t.Fatalf("CheckAnswer: %v", err)
	}
	mustNil(t, c.Answer(1, content.IndexAnswer(1)))
	if c.State() != StateViewing {
		t.Fatalf("state: got=%s want=viewing", c.State())
	}
	if err := c.Answer(3, content.IndexAnswer(1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("out of range answer: got=%v", err)
	}
}

func TestContinueRequiresCorrectCheck(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	if err := c.Continue(); !errors.Is(err, ErrAnswerNotVerified) {
		t.Fatalf("unanswered: got=%v", err)
	}
	mustNil(t, c.Answer(1, content.IndexAnswer(2)))
	_, _ = c.CheckAnswer()
	if err := c.Continue(); !errors.Is(err, ErrAnswerNotVerified) {
		t.Fatalf("incorrect: got=%v", err)
	}
	if c.CurrentIndex() != 1 {
		t.Fatalf("index moved: %d", c.CurrentIndex())
	}
}

func TestRevealAnswer(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	if _, err := c.RevealAnswer(); !errors.Is(err, ErrNoIncorrectAttempt) {
		t.Fatalf("reveal before attempt: got=%v", err)
	}
	mustNil(t, c.Answer(1, content.IndexAnswer(0)))
	_, _ = c.CheckAnswer()
	got, err := c.RevealAnswer()
	mustNil(t, err)
	if !got.Equal(content.IndexAnswer(1)) || c.State() != StateViewing {
		t.Fatalf("reveal: answer=%v state=%s", got, c.State())
	}
	if ok, _ := c.CheckAnswer(); !ok {
		t.Fatalf("revealed answer should check as correct")
	}
}

func TestShowExplanation(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	if _, err := c.ShowExplanation(); !errors.Is(err, ErrAnswerNotVerified) {
		t.Fatalf("explanation before check: got=%v", err)
	}
	mustNil(t, c.Answer(1, content.IndexAnswer(1)))
	_, _ = c.CheckAnswer()
	text, err := c.ShowExplanation()
	mustNil(t, err)
	if text != "b is the second option" || c.State() != StateExplained {
		t.Fatalf("explanation: text=%q state=%s", text, c.State())
	}
	if c.ExplanationText() != text {
		t.Fatalf("ExplanationText: got=%q", c.ExplanationText())
	}
	mustNil(t, c.Continue())

	mustNil(t, c.Answer(2, content.StringAnswer("4")))
	_, _ = c.CheckAnswer()
	text, err = c.ShowExplanation()
	mustNil(t, err)
	if text != FallbackExplanation {
		t.Fatalf("fallback: got=%q", text)
	}
}

func TestCompleteLessonGuards(t *testing.T) {
	c := newController(t)
	if _, err := c.CompleteLesson(); !errors.Is(err, ErrNotFinal) {
		t.Fatalf("not final: got=%v", err)
	}
	mustNil(t, c.Continue())
	mustNil(t, c.Answer(1, content.IndexAnswer(1)))
	_, _ = c.CheckAnswer()
	mustNil(t, c.Continue())
	if _, err := c.CompleteLesson(); !errors.Is(err, ErrAnswerNotVerified) {
		t.Fatalf("unchecked final: got=%v", err)
	}
	mustNil(t, c.Answer(2, content.StringAnswer("4")))
	_, _ = c.CheckAnswer()
	target, err := c.CompleteLesson()
	mustNil(t, err)
	if target != "/courses/c1" || c.State() != StateComplete {
		t.Fatalf("complete: target=%q state=%s", target, c.State())
	}
	again, err := c.CompleteLesson()
	mustNil(t, err)
	if again != target {
		t.Fatalf("repeat complete: got=%q", again)
	}
	done := c.Completed()
	assertNoDuplicates(t, done)
	if len(done) != 3 || !done[2].UserAnswer.Equal(content.StringAnswer("4")) {
		t.Fatalf("completed: %+v", done)
	}
}

func TestContinueNeverLeavesRange(t *testing.T) {
	c, err := New("c", []content.Item{
		content.NewMarkdown(content.Markdown{Text: "a", Format: content.FormatPlain}),
		content.NewVideo(content.Video{URL: "https://v"}),
	})
	mustNil(t, err)
	for i := 0; i < 5; i++ {
		_ = c.Continue()
		if c.CurrentIndex() < 0 || c.CurrentIndex() > c.Len()-1 {
			t.Fatalf("index out of range: %d", c.CurrentIndex())
		}
	}
	if !c.IsComplete() {
		t.Fatalf("expected completion after walking past the end")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := newController(t)
	mustNil(t, c.Continue())
	mustNil(t, c.Answer(1, content.IndexAnswer(0)))
	_, _ = c.CheckAnswer()

	raw, err := json.Marshal(c.Snapshot())
	mustNil(t, err)
	var snap Snapshot
	mustNil(t, json.Unmarshal(raw, &snap))

	restored, err := Restore(snap)
	mustNil(t, err)
	if restored.State() != StateError || restored.CurrentIndex() != 1 {
		t.Fatalf("restored: state=%s index=%d", restored.State(), restored.CurrentIndex())
	}
	if !restored.AnswerFor(1).Equal(content.IndexAnswer(0)) {
		t.Fatalf("restored answer: %v", restored.AnswerFor(1))
	}
	if len(restored.Completed()) != 1 || restored.Completed()[0].Index != 0 {
		t.Fatalf("restored completed: %+v", restored.Completed())
	}

	snap.Index = 9
	if _, err := Restore(snap); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("bad index: got=%v", err)
	}
}

func assertNoDuplicates(t *testing.T, done []Completed) {
	t.Helper()
	seen := map[int]bool{}
	for _, d := range done {
		if seen[d.Index] {
			t.Fatalf("duplicate completed index %d", d.Index)
		}
		seen[d.Index] = true
	}
}
