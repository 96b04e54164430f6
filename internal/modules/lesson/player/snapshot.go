package player

import (
	"fmt"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

// Snapshot is the serialisable form of a Controller.
type Snapshot struct {
	CourseID  string                 `json:"course_id"`
	Contents  []content.Item         `json:"contents"`
	Index     int                    `json:"index"`
	Answers   map[int]content.Answer `json:"answers"`
	Checking  bool                   `json:"checking"`
	ShowError bool                   `json:"show_error"`
	Explained bool                   `json:"explained"`
	Complete  bool                   `json:"complete"`
	Completed []Completed            `json:"completed"`
}

func (c *Controller) Snapshot() Snapshot {
	answers := make(map[int]content.Answer, len(c.answers))
	for k, v := range c.answers {
		answers[k] = v
	}
	contents := make([]content.Item, len(c.contents))
	copy(contents, c.contents)
	return Snapshot{
		CourseID:  c.courseID,
		Contents:  contents,
		Index:     c.index,
		Answers:   answers,
		Checking:  c.checking,
		ShowError: c.showError,
		Explained: c.explained,
		Complete:  c.complete,
		Completed: c.Completed(),
	}
}

// Restore rebuilds a Controller, rejecting snapshots that break its
// invariants.
func Restore(s Snapshot) (*Controller, error) {
	c, err := New(s.CourseID, s.Contents)
	if err != nil {
		return nil, err
	}
	if s.Index < 0 || s.Index >= len(s.Contents) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, s.Index)
	}
	for k, v := range s.Answers {
		if k < 0 || k >= len(s.Contents) {
			return nil, fmt.Errorf("%w: answer for %d", ErrIndexOutOfRange, k)
		}
		c.answers[k] = v
	}
	seen := map[int]bool{}
	for _, done := range s.Completed {
		if done.Index < 0 || done.Index >= len(s.Contents) {
			return nil, fmt.Errorf("%w: completed %d", ErrIndexOutOfRange, done.Index)
		}
		if seen[done.Index] {
			continue
		}
		seen[done.Index] = true
		c.completed = append(c.completed, done)
	}
	c.index = s.Index
	c.checking = s.Checking
	c.showError = s.ShowError && s.Checking
	c.explained = s.Explained && s.Checking && !s.ShowError
	c.complete = s.Complete
	return c, nil
}
