package render

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

func TestSplitLatex(t *testing.T) {
	got := SplitLatex("Area is $\\pi r^2$ and $$E=mc^2$$.")
	want := []Segment{
		{Text: "Area is "},
		{Text: "\\pi r^2", Math: true},
		{Text: " and "},
		{Text: "E=mc^2", Math: true, Display: true},
		{Text: "."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitLatex:\n got=%+v\nwant=%+v", got, want)
	}
	if segs := SplitLatex(""); len(segs) != 0 {
		t.Fatalf("empty text: got=%+v", segs)
	}
	if segs := SplitLatex("a $b\nc$ d"); len(segs) != 1 || segs[0].Math {
		t.Fatalf("math must not span lines: got=%+v", segs)
	}
}

func TestRenderMarkdown(t *testing.T) {
	plain := Render(content.NewMarkdown(content.Markdown{Text: "a < b\nnext", Format: content.FormatPlain}), Options{})
	if plain.Kind != KindMarkdown || !strings.Contains(string(plain.HTML), "a &lt; b<br>next") {
		t.Fatalf("plain: %s", plain.HTML)
	}

	latex := Render(content.NewMarkdown(content.Markdown{Text: "# Title\n\nSolve $x_1 + x_2$ now.", Format: content.FormatLatex}), Options{})
	html := string(latex.HTML)
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Fatalf("expected heading, got %s", html)
	}
	if !strings.Contains(html, `<span class="math inline">\(x_1 + x_2\)</span>`) {
		t.Fatalf("math span not preserved: %s", html)
	}
	if strings.Contains(html, "MSMATHTOKEN") {
		t.Fatalf("placeholder leaked: %s", html)
	}
}

func TestRenderMultipleChoice(t *testing.T) {
	q := content.NewQuestion(content.Question{
		Format:        content.MultipleChoice,
		Question:      "Pick",
		Options:       []string{"a", "b"},
		CorrectAnswer: content.IndexAnswer(1),
	})
	v := Render(q, Options{Current: true, Answer: content.IndexAnswer(0)})
	if n := strings.Count(string(v.HTML), `data-index=`); n != 2 {
		t.Fatalf("expected one control per option, got %d", n)
	}
	if !strings.Contains(string(v.HTML), `class="option selected" data-index="0"`) {
		t.Fatalf("selected option missing: %s", v.HTML)
	}
	if !reflect.DeepEqual(v.Actions, []Action{ActionCheck}) {
		t.Fatalf("actions: %v", v.Actions)
	}

	wrong := Render(q, Options{Current: true, Answer: content.IndexAnswer(0), Checking: true, ShowError: true})
	if !strings.Contains(string(wrong.HTML), "incorrect") || !strings.Contains(string(wrong.HTML), "That&#39;s incorrect. Try again.") {
		t.Fatalf("incorrect feedback missing: %s", wrong.HTML)
	}
	if !reflect.DeepEqual(wrong.Actions, []Action{ActionReveal, ActionTryAgain}) {
		t.Fatalf("actions: %v", wrong.Actions)
	}

	right := Render(q, Options{Current: true, Final: true, Answer: content.IndexAnswer(1), Checking: true})
	if !strings.Contains(string(right.HTML), "Correct!") {
		t.Fatalf("correct feedback missing: %s", right.HTML)
	}
	if !reflect.DeepEqual(right.Actions, []Action{ActionExplanation, ActionComplete}) {
		t.Fatalf("actions: %v", right.Actions)
	}
}

func TestRenderQuestionWithoutOptions(t *testing.T) {
	q := content.NewQuestion(content.Question{Format: content.MultipleChoice, Question: "?", CorrectAnswer: content.IndexAnswer(0)})
	v := Render(q, Options{})
	if v.Notice != NoOptionsNotice || !strings.Contains(string(v.HTML), NoOptionsNotice) {
		t.Fatalf("expected no-options notice, got %+v", v)
	}
}

func TestRenderShortAnswerAndExplanation(t *testing.T) {
	q := content.NewQuestion(content.Question{Format: content.ShortAnswer, Question: "2+2", CorrectAnswer: content.StringAnswer("4")})
	v := Render(q, Options{Current: true, Answer: content.StringAnswer("4"), Checking: true, ShowExplanation: true})
	html := string(v.HTML)
	if !strings.Contains(html, "<textarea") || !strings.Contains(html, ">4</textarea>") {
		t.Fatalf("textarea missing: %s", html)
	}
	if !strings.Contains(html, FallbackExplanation) {
		t.Fatalf("fallback explanation missing: %s", html)
	}
}

func TestRenderVideoAndVisualization(t *testing.T) {
	v := Render(content.NewVideo(content.Video{URL: "https://example.com/v.mp4", Duration: 90}), Options{Current: true})
	if !strings.Contains(string(v.HTML), VideoPlaceholder) || !strings.Contains(string(v.HTML), "Duration: 90 seconds") {
		t.Fatalf("video: %s", v.HTML)
	}
	if !reflect.DeepEqual(v.Actions, []Action{ActionContinue}) {
		t.Fatalf("video actions: %v", v.Actions)
	}

	viz := Render(content.NewVisualization(content.Visualization{Engine: content.EngineMathbox}), Options{})
	if viz.Notice != "MathBox visualization will appear here" {
		t.Fatalf("visualization notice: %q", viz.Notice)
	}
}

func TestRenderUnknownVariant(t *testing.T) {
	v := Render(content.Item{Type: "applet"}, Options{Current: true, Final: true})
	if v.Kind != KindUnsupported || v.Notice != UnsupportedNotice {
		t.Fatalf("unexpected view: %+v", v)
	}
	if !reflect.DeepEqual(v.Actions, []Action{ActionComplete}) {
		t.Fatalf("actions: %v", v.Actions)
	}
}

func TestPage(t *testing.T) {
	done := Render(content.NewMarkdown(content.Markdown{Text: "intro", Format: content.FormatPlain}), Options{})
	cur := Render(content.NewVideo(content.Video{URL: "https://v"}), Options{Current: true})
	var buf bytes.Buffer
	err := Page(&buf, PageData{
		CourseTitle:  "Algebra",
		ChapterTitle: "Basics",
		LessonTitle:  "Variables",
		CourseURL:    "/courses/1",
		Progress:     150,
		Completed:    []View{done},
		Current:      &cur,
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	html := buf.String()
	for _, want := range []string{`aria-valuenow="100"`, "Algebra", "Basics", "<h1>Variables</h1>", `data-actions="continue"`, "intro"} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q:\n%s", want, html)
		}
	}
}
