package render

import (
	"bytes"
	"html/template"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

type Kind string

const (
	KindMarkdown      Kind = "markdown"
	KindQuestion      Kind = "question"
	KindVideo         Kind = "video"
	KindVisualization Kind = "visualization"
	KindUnsupported   Kind = "unsupported"
)

// Action names a control the learner can use on the rendered item.
type Action string

const (
	ActionCheck       Action = "check"
	ActionTryAgain    Action = "try-again"
	ActionReveal      Action = "reveal"
	ActionExplanation Action = "explanation"
	ActionContinue    Action = "continue"
	ActionComplete    Action = "complete"
)

const (
	NoOptionsNotice     = "No options available for this question"
	VideoPlaceholder    = "Video player will appear here"
	UnsupportedNotice   = "Unsupported content"
	IncorrectFeedback   = "That's incorrect. Try again."
	CorrectFeedback     = "Correct!"
	FallbackExplanation = "No explanation available."
)

// Options carries the learner state that decorates an item.
type Options struct {
	Current         bool
	Final           bool
	Answer          content.Answer
	Checking        bool
	ShowError       bool
	ShowExplanation bool
}

type View struct {
	Kind    Kind          `json:"kind"`
	HTML    template.HTML `json:"html"`
	Notice  string        `json:"notice,omitempty"`
	Actions []Action      `json:"actions,omitempty"`
}

// Render maps a content item to its view. It never fails: a payload that
// cannot be rendered degrades to the unsupported notice.
func Render(item content.Item, opts Options) View {
	var (
		v   View
		err error
	)
	switch {
	case item.Type == content.TypeMarkdown && item.Markdown != nil:
		v, err = renderMarkdown(item.Markdown)
	case item.Type == content.TypeQuestion && item.Question != nil:
		v, err = renderQuestion(item.Question, opts)
	case item.Type == content.TypeVideo && item.Video != nil:
		v, err = renderVideo(item.Video)
	case item.Type == content.TypeVisualization && item.Visualization != nil:
		v, err = renderVisualization(item.Visualization)
	default:
		return unsupported(opts)
	}
	if err != nil {
		return unsupported(opts)
	}
	if v.Kind != KindQuestion && opts.Current {
		v.Actions = advanceActions(opts)
	}
	return v
}

func unsupported(opts Options) View {
	v := View{
		Kind:   KindUnsupported,
		HTML:   template.HTML(`<div class="content-unsupported">` + template.HTMLEscapeString(UnsupportedNotice) + `</div>`),
		Notice: UnsupportedNotice,
	}
	if opts.Current {
		v.Actions = advanceActions(opts)
	}
	return v
}

func advanceActions(opts Options) []Action {
	if opts.Final {
		return []Action{ActionComplete}
	}
	return []Action{ActionContinue}
}

func renderMarkdown(m *content.Markdown) (View, error) {
	var body template.HTML
	if m.Format == content.FormatLatex {
		html, err := markdownHTML(m.Text)
		if err != nil {
			return View{}, err
		}
		body = html
	} else {
		body = template.HTML(escapeLines(m.Text))
	}
	html, err := execute("markdown", struct {
		Latex bool
		Body  template.HTML
	}{Latex: m.Format == content.FormatLatex, Body: body})
	if err != nil {
		return View{}, err
	}
	return View{Kind: KindMarkdown, HTML: html}, nil
}

type optionView struct {
	Index     int
	Label     template.HTML
	Selected  bool
	Correct   bool
	Incorrect bool
}

type questionView struct {
	Text            template.HTML
	MultipleChoice  bool
	ShortAnswer     bool
	NoOptions       string
	Options         []optionView
	Answer          string
	Current         bool
	Checking        bool
	IsCorrect       bool
	ShowError       bool
	ShowExplanation bool
	Explanation     template.HTML
	Visualization   bool
	Final           bool
	CorrectLabel    string
	IncorrectLabel  string
}

func renderQuestion(q *content.Question, opts Options) (View, error) {
	correct := opts.Checking && !opts.ShowError && opts.Answer.Equal(q.CorrectAnswer)
	explanation := q.Explanation
	if explanation == "" {
		explanation = FallbackExplanation
	}
	data := questionView{
		Text:            inlineHTML(q.Question),
		MultipleChoice:  q.Format == content.MultipleChoice,
		ShortAnswer:     q.Format == content.ShortAnswer,
		Answer:          opts.Answer.String(),
		Current:         opts.Current,
		Checking:        opts.Checking,
		IsCorrect:       correct,
		ShowError:       opts.Checking && opts.ShowError,
		ShowExplanation: opts.ShowExplanation || !opts.Current,
		Explanation:     inlineHTML(explanation),
		Visualization:   q.Visualization,
		Final:           opts.Final,
		CorrectLabel:    CorrectFeedback,
		IncorrectLabel:  IncorrectFeedback,
	}

	v := View{Kind: KindQuestion}
	if data.MultipleChoice {
		if len(q.Options) == 0 {
			data.NoOptions = NoOptionsNotice
			v.Notice = NoOptionsNotice
		}
		selected, hasSelection := opts.Answer.Index()
		correctIdx, hasCorrect := q.CorrectAnswer.Index()
		for i, label := range q.Options {
			isSelected := hasSelection && selected == i
			data.Options = append(data.Options, optionView{
				Index:     i,
				Label:     inlineHTML(label),
				Selected:  isSelected,
				Correct:   opts.Checking && hasCorrect && correctIdx == i,
				Incorrect: data.ShowError && isSelected,
			})
		}
	}

	html, err := execute("question", data)
	if err != nil {
		return View{}, err
	}
	v.HTML = html
	if opts.Current {
		v.Actions = questionActions(data)
	}
	return v, nil
}

func questionActions(q questionView) []Action {
	switch {
	case !q.Checking:
		return []Action{ActionCheck}
	case q.ShowError:
		return []Action{ActionReveal, ActionTryAgain}
	case q.IsCorrect && q.Final:
		return []Action{ActionExplanation, ActionComplete}
	case q.IsCorrect:
		return []Action{ActionExplanation, ActionContinue}
	default:
		return nil
	}
}

func renderVideo(v *content.Video) (View, error) {
	caption := v.Caption
	if caption == "" {
		caption = VideoPlaceholder
	}
	html, err := execute("video", struct {
		URL      string
		Caption  string
		Duration int
	}{URL: v.URL, Caption: caption, Duration: v.Duration})
	if err != nil {
		return View{}, err
	}
	return View{Kind: KindVideo, HTML: html}, nil
}

// EnginePlaceholder is the stand-in text for a visualization engine.
func EnginePlaceholder(engine content.Engine) string {
	switch engine {
	case content.EnginePlotly:
		return "Plotly visualization will appear here"
	case content.EngineMathbox:
		return "MathBox visualization will appear here"
	case content.EngineCustom:
		return "Custom visualization will appear here"
	default:
		return "Visualization will appear here"
	}
}

func renderVisualization(v *content.Visualization) (View, error) {
	placeholder := EnginePlaceholder(v.Engine)
	html, err := execute("visualization", struct {
		Engine      string
		Placeholder string
		Config      string
	}{Engine: string(v.Engine), Placeholder: placeholder, Config: string(v.Config)})
	if err != nil {
		return View{}, err
	}
	return View{Kind: KindVisualization, HTML: html, Notice: placeholder}, nil
}

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
