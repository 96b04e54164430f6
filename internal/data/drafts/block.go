package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

type BlockType string

const (
	BlockMarkdown       BlockType = "markdown"
	BlockMultipleChoice BlockType = "multiple_choice"
	BlockShortAnswer    BlockType = "short_answer"
	BlockCode           BlockType = "code"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var (
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrBlockNotFound    = errors.New("block not found")
	ErrBadDirection     = errors.New("direction must be up or down")
)

// Block is one editor entry. Data is kept as raw JSON so the editor can
// carry fields the server does not interpret.
type Block struct {
	ID   string          `json:"id"`
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (t BlockType) Valid() bool {
	switch t {
	case BlockMarkdown, BlockMultipleChoice, BlockShortAnswer, BlockCode:
		return true
	}
	return false
}

// DefaultData is the empty payload a freshly added block of type t starts with.
func DefaultData(t BlockType) json.RawMessage {
	switch t {
	case BlockMultipleChoice:
		return json.RawMessage(`{"question":"","options":["",""],"correctAnswer":0}`)
	case BlockShortAnswer:
		return json.RawMessage(`{"question":"","answer":""}`)
	case BlockCode:
		return json.RawMessage(`{"code":"","language":"javascript"}`)
	default:
		return json.RawMessage(`{"text":""}`)
	}
}

// NewBlock returns a block with a fresh id and default data. An empty type
// means markdown.
func NewBlock(t BlockType) (Block, error) {
	if t == "" {
		t = BlockMarkdown
	}
	if !t.Valid() {
		return Block{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
	return Block{ID: uuid.NewString(), Type: t, Data: DefaultData(t)}, nil
}

// Draft is the ordered block list being edited.
type Draft []Block

func (d Draft) indexOf(id string) int {
	for i, b := range d {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (d Draft) Add(b Block) Draft {
	out := make(Draft, 0, len(d)+1)
	out = append(out, d...)
	return append(out, b)
}

// Update replaces the data of block id.
func (d Draft) Update(id string, data json.RawMessage) (Draft, error) {
	i := d.indexOf(id)
	if i < 0 {
		return d, ErrBlockNotFound
	}
	if !json.Valid(data) {
		return d, fmt.Errorf("block %s: data is not valid JSON", id)
	}
	out := append(Draft(nil), d...)
	out[i].Data = append(json.RawMessage(nil), data...)
	return out, nil
}

// SetType changes a block's type and keeps its data as is.
func (d Draft) SetType(id string, t BlockType) (Draft, error) {
	if !t.Valid() {
		return d, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
	i := d.indexOf(id)
	if i < 0 {
		return d, ErrBlockNotFound
	}
	out := append(Draft(nil), d...)
	out[i].Type = t
	return out, nil
}

// Move swaps block id with its neighbour. Moving past either end is a no-op.
func (d Draft) Move(id string, dir Direction) (Draft, error) {
	i := d.indexOf(id)
	if i < 0 {
		return d, ErrBlockNotFound
	}
	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return d, ErrBadDirection
	}
	if j < 0 || j >= len(d) {
		return d, nil
	}
	out := append(Draft(nil), d...)
	out[i], out[j] = out[j], out[i]
	return out, nil
}

func (d Draft) Delete(id string) (Draft, error) {
	i := d.indexOf(id)
	if i < 0 {
		return d, ErrBlockNotFound
	}
	out := make(Draft, 0, len(d)-1)
	out = append(out, d[:i]...)
	return append(out, d[i+1:]...), nil
}

type markdownData struct {
	Text string `json:"text"`
}

type multipleChoiceData struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type shortAnswerData struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

type codeData struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ToContent converts a block into lesson content. Markdown text becomes
// latex-format markdown; code becomes a fenced block in plain markdown.
func (b Block) ToContent() (content.Item, error) {
	data := b.Data
	if len(data) == 0 {
		data = DefaultData(b.Type)
	}
	switch b.Type {
	case BlockMarkdown:
		var d markdownData
		if err := json.Unmarshal(data, &d); err != nil {
			return content.Item{}, fmt.Errorf("block %s: %w", b.ID, err)
		}
		return content.NewMarkdown(content.Markdown{Text: d.Text, Format: content.FormatLatex}), nil
	case BlockMultipleChoice:
		var d multipleChoiceData
		if err := json.Unmarshal(data, &d); err != nil {
			return content.Item{}, fmt.Errorf("block %s: %w", b.ID, err)
		}
		if d.CorrectAnswer < 0 || d.CorrectAnswer >= len(d.Options) {
			return content.Item{}, fmt.Errorf("block %s: correct answer %d is not an option", b.ID, d.CorrectAnswer)
		}
		return content.NewQuestion(content.Question{
			Format:        content.MultipleChoice,
			Question:      d.Question,
			Options:       d.Options,
			CorrectAnswer: content.IndexAnswer(d.CorrectAnswer),
			Explanation:   d.Explanation,
		}), nil
	case BlockShortAnswer:
		var d shortAnswerData
		if err := json.Unmarshal(data, &d); err != nil {
			return content.Item{}, fmt.Errorf("block %s: %w", b.ID, err)
		}
		return content.NewQuestion(content.Question{
			Format:        content.ShortAnswer,
			Question:      d.Question,
			CorrectAnswer: content.StringAnswer(d.Answer),
			Explanation:   d.Explanation,
		}), nil
	case BlockCode:
		var d codeData
		if err := json.Unmarshal(data, &d); err != nil {
			return content.Item{}, fmt.Errorf("block %s: %w", b.ID, err)
		}
		text := "```" + strings.TrimSpace(d.Language) + "\n" + d.Code + "\n```"
		return content.NewMarkdown(content.Markdown{Text: text, Format: content.FormatPlain}), nil
	}
	return content.Item{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, b.Type)
}

// Contents converts every block, stopping at the first failure.
func (d Draft) Contents() ([]content.Item, error) {
	out := make([]content.Item, 0, len(d))
	for _, b := range d {
		it, err := b.ToContent()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
