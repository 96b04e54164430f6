package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type AnswerKind uint8

const (
	AnswerAbsent AnswerKind = iota
	AnswerString
	AnswerNumber
)

// Answer is a learner response or an authored correct answer: a string, a
// number, or nothing. The zero value is absent.
type Answer struct {
	kind AnswerKind
	str  string
	num  float64
}

func StringAnswer(s string) Answer { return Answer{kind: AnswerString, str: s} }

func NumberAnswer(n float64) Answer { return Answer{kind: AnswerNumber, num: n} }

func IndexAnswer(i int) Answer { return NumberAnswer(float64(i)) }

func (a Answer) Kind() AnswerKind { return a.kind }

func (a Answer) IsAbsent() bool { return a.kind == AnswerAbsent }

func (a Answer) String() string {
	switch a.kind {
	case AnswerString:
		return a.str
	case AnswerNumber:
		return strconv.FormatFloat(a.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Index reports the answer as an option index when it is a whole number.
func (a Answer) Index() (int, bool) {
	if a.kind != AnswerNumber || a.num != math.Trunc(a.num) {
		return 0, false
	}
	return int(a.num), true
}

// Equal is strict: kinds must match, so the number 1 never equals "1".
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case AnswerString:
		return a.str == b.str
	case AnswerNumber:
		return a.num == b.num
	default:
		return true
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerString:
		return json.Marshal(a.str)
	case AnswerNumber:
		return json.Marshal(a.num)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Answer{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = StringAnswer(s)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("answer must be a string, a number, or null: %w", err)
		}
		*a = NumberAnswer(n)
		return nil
	}
}
