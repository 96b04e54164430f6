package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

type Type string

const (
	TypeMarkdown      Type = "markdown"
	TypeQuestion      Type = "question"
	TypeVideo         Type = "video"
	TypeVisualization Type = "visualization"
)

type MarkdownFormat string

const (
	FormatPlain MarkdownFormat = "plain"
	FormatLatex MarkdownFormat = "latex"
)

type QuestionFormat string

const (
	MultipleChoice QuestionFormat = "multiple_choice"
	ShortAnswer    QuestionFormat = "short_answer"
)

type Engine string

const (
	EnginePlotly  Engine = "plotly"
	EngineMathbox Engine = "mathbox"
	EngineCustom  Engine = "custom"
)

type Markdown struct {
	Text   string         `json:"text"`
	Format MarkdownFormat `json:"format"`
}

type Question struct {
	Format        QuestionFormat `json:"format"`
	Question      string         `json:"question"`
	Options       []string       `json:"options,omitempty"`
	CorrectAnswer Answer         `json:"correct_answer"`
	Explanation   string         `json:"explanation,omitempty"`
	Visualization bool           `json:"visualization,omitempty"`
}

type Video struct {
	URL      string `json:"url"`
	Caption  string `json:"caption,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

type Visualization struct {
	Engine Engine         `json:"engine"`
	Config datatypes.JSON `json:"config,omitempty"`
}

// Item is one unit of lesson material. Exactly one variant pointer is set
// for known types; unknown types keep their raw data so they can still be
// stored and reported as unsupported.
type Item struct {
	Type          Type
	Markdown      *Markdown
	Question      *Question
	Video         *Video
	Visualization *Visualization
	Raw           json.RawMessage
}

var (
	ErrUnknownType    = errors.New("unknown content type")
	ErrInvalidItem    = errors.New("invalid content item")
	errMissingVariant = errors.New("content variant is not set")
)

func NewMarkdown(m Markdown) Item { return Item{Type: TypeMarkdown, Markdown: &m} }

func NewQuestion(q Question) Item { return Item{Type: TypeQuestion, Question: &q} }

func NewVideo(v Video) Item { return Item{Type: TypeVideo, Video: &v} }

func NewVisualization(v Visualization) Item {
	return Item{Type: TypeVisualization, Visualization: &v}
}

func (it Item) IsQuestion() bool { return it.Type == TypeQuestion && it.Question != nil }

type envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	data, err := it.Data()
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: it.Type, Data: data})
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	item, err := Decode(env.Type, env.Data)
	if err != nil {
		return err
	}
	*it = item
	return nil
}

// Data returns the JSON encoding of the variant payload.
func (it Item) Data() (json.RawMessage, error) {
	var v interface{}
	switch it.Type {
	case TypeMarkdown:
		v = it.Markdown
	case TypeQuestion:
		v = it.Question
	case TypeVideo:
		v = it.Video
	case TypeVisualization:
		v = it.Visualization
	default:
		if len(it.Raw) == 0 {
			return json.RawMessage("{}"), nil
		}
		return it.Raw, nil
	}
	if v == nil || isNilPtr(v) {
		return nil, fmt.Errorf("%s: %w", it.Type, errMissingVariant)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Decode builds an Item from a type tag and its data payload. Unknown tags
// are preserved rather than rejected.
func Decode(t Type, data []byte) (Item, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	it := Item{Type: t}
	var err error
	switch t {
	case TypeMarkdown:
		it.Markdown = &Markdown{}
		err = json.Unmarshal(data, it.Markdown)
	case TypeQuestion:
		it.Question = &Question{}
		err = json.Unmarshal(data, it.Question)
	case TypeVideo:
		it.Video = &Video{}
		err = json.Unmarshal(data, it.Video)
	case TypeVisualization:
		it.Visualization = &Visualization{}
		err = json.Unmarshal(data, it.Visualization)
	default:
		it.Raw = append(json.RawMessage(nil), data...)
	}
	if err != nil {
		return Item{}, fmt.Errorf("decode %s content: %w", t, err)
	}
	return it, nil
}

// Validate checks the authored shape of an item before it is stored.
func (it Item) Validate() error {
	switch it.Type {
	case TypeMarkdown:
		if it.Markdown == nil {
			return fmt.Errorf("%w: markdown data missing", ErrInvalidItem)
		}
		switch it.Markdown.Format {
		case FormatPlain, FormatLatex:
		default:
			return fmt.Errorf("%w: markdown format %q", ErrInvalidItem, it.Markdown.Format)
		}
	case TypeQuestion:
		q := it.Question
		if q == nil {
			return fmt.Errorf("%w: question data missing", ErrInvalidItem)
		}
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question text is empty", ErrInvalidItem)
		}
		if q.CorrectAnswer.IsAbsent() {
			return fmt.Errorf("%w: correct_answer is required", ErrInvalidItem)
		}
		switch q.Format {
		case MultipleChoice:
			// Multiple-choice answers are option indices.
			idx, ok := q.CorrectAnswer.Index()
			if !ok {
				return fmt.Errorf("%w: multiple_choice correct_answer must be an option index", ErrInvalidItem)
			}
			if idx < 0 || (len(q.Options) > 0 && idx >= len(q.Options)) {
				return fmt.Errorf("%w: correct_answer %d out of range", ErrInvalidItem, idx)
			}
		case ShortAnswer:
		default:
			return fmt.Errorf("%w: question format %q", ErrInvalidItem, q.Format)
		}
	case TypeVideo:
		if it.Video == nil || strings.TrimSpace(it.Video.URL) == "" {
			return fmt.Errorf("%w: video url is required", ErrInvalidItem)
		}
		if it.Video.Duration < 0 {
			return fmt.Errorf("%w: negative video duration", ErrInvalidItem)
		}
	case TypeVisualization:
		if it.Visualization == nil {
			return fmt.Errorf("%w: visualization data missing", ErrInvalidItem)
		}
		switch it.Visualization.Engine {
		case EnginePlotly, EngineMathbox, EngineCustom:
		default:
			return fmt.Errorf("%w: visualization engine %q", ErrInvalidItem, it.Visualization.Engine)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, it.Type)
	}
	return nil
}

func isNilPtr(v interface{}) bool {
	switch p := v.(type) {
	case *Markdown:
		return p == nil
	case *Question:
		return p == nil
	case *Video:
		return p == nil
	case *Visualization:
		return p == nil
	}
	return false
}
