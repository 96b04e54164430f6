package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

type State string

const (
	StateViewing   State = "viewing"
	StateChecking  State = "checking"
	StateError     State = "error"
	StateExplained State = "explained"
	StateComplete  State = "complete"
)

// FallbackExplanation is shown when a question has no authored explanation.
const FallbackExplanation = "No explanation available."

var (
	ErrEmptyLesson        = errors.New("lesson has no content")
	ErrIndexOutOfRange    = errors.New("content index out of range")
	ErrNotQuestion        = errors.New("current content is not a question")
	ErrAnswerNotVerified  = errors.New("answer has not been checked as correct")
	ErrNoIncorrectAttempt = errors.New("no incorrect attempt to reveal")
	ErrNotFinal           = errors.New("current content is not the final item")
	ErrLessonComplete     = errors.New("lesson is already complete")
)

// Completed is a frozen record of an item the learner moved past.
type Completed struct {
	Index      int            `json:"index"`
	Content    content.Item   `json:"content"`
	UserAnswer content.Answer `json:"user_answer"`
}

// Controller walks a learner through one lesson's content items. It is not
// safe for concurrent use; callers serialise access per session.
type Controller struct {
	courseID string
	contents []content.Item
	index    int
	answers  map[int]content.Answer

	checking  bool
	showError bool
	explained bool
	complete  bool

	completed []Completed
}

func New(courseID string, contents []content.Item) (*Controller, error) {
	if len(contents) == 0 {
		return nil, ErrEmptyLesson
	}
	items := make([]content.Item, len(contents))
	copy(items, contents)
	return &Controller{
		courseID: courseID,
		contents: items,
		answers:  map[int]content.Answer{},
	}, nil
}

func (c *Controller) State() State {
	switch {
	case c.complete:
		return StateComplete
	case c.explained:
		return StateExplained
	case c.checking && c.showError:
		return StateError
	case c.checking:
		return StateChecking
	default:
		return StateViewing
	}
}

func (c *Controller) Len() int              { return len(c.contents) }
func (c *Controller) CourseID() string      { return c.courseID }
func (c *Controller) CurrentIndex() int     { return c.index }
func (c *Controller) Current() content.Item { return c.contents[c.index] }
func (c *Controller) IsFinal() bool         { return c.index == len(c.contents)-1 }
func (c *Controller) IsComplete() bool      { return c.complete }

// Progress is round(index/len*100), or 100 once the lesson is complete.
func (c *Controller) Progress() int {
	if c.complete {
		return 100
	}
	return int(math.Round(float64(c.index) / float64(len(c.contents)) * 100))
}

func (c *Controller) AnswerFor(index int) content.Answer {
	return c.answers[index]
}

func (c *Controller) Completed() []Completed {
	out := make([]Completed, len(c.completed))
	copy(out, c.completed)
	return out
}

// NavigationTarget is where the learner goes once the lesson is done.
func (c *Controller) NavigationTarget() string {
	return fmt.Sprintf("/courses/%s", c.courseID)
}

// Answer records a response for index. A pending check is discarded.
func (c *Controller) Answer(index int, value content.Answer) error {
	if c.complete {
		return ErrLessonComplete
	}
	if index < 0 || index >= len(c.contents) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.answers[index] = value
	if c.checking {
		c.resetFlags()
	}
	return nil
}

// CheckAnswer compares the recorded answer for the current question with its
// correct answer. It reports whether the answer was correct.
func (c *Controller) CheckAnswer() (bool, error) {
	if c.complete {
		return false, ErrLessonComplete
	}
	item := c.Current()
	if !item.IsQuestion() {
		return false, ErrNotQuestion
	}
	c.checking = true
	c.explained = false
	ans, ok := c.answers[c.index]
	c.showError = !ok || ans.IsAbsent() || !ans.Equal(item.Question.CorrectAnswer)
	return !c.showError, nil
}

// TryAgain drops the current check. The recorded answer is kept.
func (c *Controller) TryAgain() error {
	if c.complete {
		return ErrLessonComplete
	}
	c.resetFlags()
	return nil
}

// RevealAnswer fills in the correct answer after an incorrect attempt.
func (c *Controller) RevealAnswer() (content.Answer, error) {
	if c.State() != StateError {
		return content.Answer{}, ErrNoIncorrectAttempt
	}
	correct := c.Current().Question.CorrectAnswer
	if err := c.Answer(c.index, correct); err != nil {
		return content.Answer{}, err
	}
	return correct, nil
}

// ShowExplanation reveals the explanation of a correctly answered question.
func (c *Controller) ShowExplanation() (string, error) {
	if c.complete {
		return "", ErrLessonComplete
	}
	item := c.Current()
	if !item.IsQuestion() {
		return "", ErrNotQuestion
	}
	if !c.correctlyChecked() {
		return "", ErrAnswerNotVerified
	}
	c.explained = true
	return explanationText(item.Question), nil
}

// Continue freezes the current item into the completed list and advances.
// On the final item it completes the lesson instead of moving.
func (c *Controller) Continue() error {
	if c.complete {
		return ErrLessonComplete
	}
	if !c.verified() {
		return ErrAnswerNotVerified
	}
	c.appendCompleted(c.index)
	c.resetFlags()
	if c.index < len(c.contents)-1 {
		c.index++
	} else {
		c.complete = true
	}
	return nil
}

// CompleteLesson finishes the lesson from its final item and returns the
// navigation target. Repeating it after completion returns the same target.
func (c *Controller) CompleteLesson() (string, error) {
	if c.complete {
		return c.NavigationTarget(), nil
	}
	if !c.IsFinal() {
		return "", ErrNotFinal
	}
	if !c.verified() {
		return "", ErrAnswerNotVerified
	}
	c.appendCompleted(c.index)
	c.resetFlags()
	c.complete = true
	return c.NavigationTarget(), nil
}

// ExplanationText is non-empty only while the explanation is revealed.
func (c *Controller) ExplanationText() string {
	if !c.explained || c.complete || !c.Current().IsQuestion() {
		return ""
	}
	return explanationText(c.Current().Question)
}

func (c *Controller) correctlyChecked() bool {
	return c.checking && !c.showError
}

// verified is true when the current item may be left behind: non-questions
// always, questions only after a correct check.
func (c *Controller) verified() bool {
	if !c.Current().IsQuestion() {
		return true
	}
	return c.correctlyChecked()
}

func (c *Controller) appendCompleted(index int) {
	for _, done := range c.completed {
		if done.Index == index {
			return
		}
	}
	c.completed = append(c.completed, Completed{
		Index:      index,
		Content:    c.contents[index],
		UserAnswer: c.answers[index],
	})
}

func (c *Controller) resetFlags() {
	c.checking = false
	c.showError = false
	c.explained = false
}

func explanationText(q *content.Question) string {
	if q == nil || q.Explanation == "" {
		return FallbackExplanation
	}
	return q.Explanation
}
