package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/mathstep-backend/internal/data/sessions"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/lookup"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/player"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/render"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/keymutex"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/observability"
)

// PlayerView is what a client needs to draw the lesson player after any
// operation.
type PlayerView struct {
	SessionID    string             `json:"session_id"`
	CourseID     string             `json:"course_id"`
	ChapterID    string             `json:"chapter_id"`
	LessonID     string             `json:"lesson_id"`
	CourseTitle  string             `json:"course_title"`
	ChapterTitle string             `json:"chapter_title"`
	LessonTitle  string             `json:"lesson_title"`
	State        player.State       `json:"state"`
	Index        int                `json:"index"`
	Total        int                `json:"total"`
	Progress     int                `json:"progress"`
	IsFinal      bool               `json:"is_final"`
	Current      *content.Item      `json:"current,omitempty"`
	CurrentView  *render.View       `json:"current_view,omitempty"`
	Answer       content.Answer     `json:"answer"`
	Correct      *bool              `json:"correct,omitempty"`
	Explanation  string             `json:"explanation,omitempty"`
	Completed    []player.Completed `json:"completed"`
	NavigateTo   string             `json:"navigate_to,omitempty"`
}

type PlayerService interface {
	Start(ctx context.Context, courseID, chapterID, lessonID string) (*PlayerView, error)
	Get(ctx context.Context, sessionID string) (*PlayerView, error)
	Answer(ctx context.Context, sessionID string, index int, value content.Answer) (*PlayerView, error)
	Check(ctx context.Context, sessionID string) (*PlayerView, error)
	TryAgain(ctx context.Context, sessionID string) (*PlayerView, error)
	Reveal(ctx context.Context, sessionID string) (*PlayerView, error)
	Explanation(ctx context.Context, sessionID string) (*PlayerView, error)
	Continue(ctx context.Context, sessionID string) (*PlayerView, error)
	Complete(ctx context.Context, sessionID string) (*PlayerView, error)
	Page(ctx context.Context, sessionID string) ([]byte, error)
}

type playerService struct {
	log    *logger.Logger
	source lookup.Source
	store  sessions.Store
	locks  *keymutex.Map
	now    func() time.Time
}

func NewPlayerService(log *logger.Logger, source lookup.Source, store sessions.Store) PlayerService {
	return &playerService{
		log:    log.With("service", "PlayerService"),
		source: source,
		store:  store,
		locks:  keymutex.New(),
		now:    time.Now,
	}
}

func (ps *playerService) Start(ctx context.Context, courseID, chapterID, lessonID string) (*PlayerView, error) {
	ctx, span := observability.StartSpan(ctx, "player.Start",
		attribute.String("course_id", courseID),
		attribute.String("lesson_id", lessonID),
	)
	defer span.End()

	res, err := lookup.Resolve(ctx, ps.source, courseID, chapterID, lessonID)
	if err != nil {
		return nil, lookupError(err)
	}
	ctrl, err := player.New(res.Course.ID.String(), res.Contents)
	if err != nil {
		return nil, playerError(err)
	}
	now := ps.now().UTC()
	sess := &sessions.Session{
		ID:        uuid.NewString(),
		CourseID:  res.Course.ID.String(),
		ChapterID: res.Chapter.ID.String(),
		LessonID:  res.Lesson.ID.String(),
		Titles: sessions.Titles{
			Course:            res.Course.Title,
			Chapter:           res.Chapter.Title,
			Lesson:            res.Lesson.Title,
			LessonDescription: res.Lesson.Description,
		},
		Player:    ctrl.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ps.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save player session: %w", err)
	}
	ps.log.Debug("Started player session", "session_id", sess.ID, "lesson_id", sess.LessonID)
	return buildView(sess, ctrl, nil), nil
}

func (ps *playerService) Get(ctx context.Context, sessionID string) (*PlayerView, error) {
	sess, ctrl, err := ps.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildView(sess, ctrl, nil), nil
}

func (ps *playerService) Answer(ctx context.Context, sessionID string, index int, value content.Answer) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		return nil, c.Answer(index, value)
	})
}

func (ps *playerService) Check(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		ok, err := c.CheckAnswer()
		if err != nil {
			return nil, err
		}
		return &ok, nil
	})
}

func (ps *playerService) TryAgain(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		return nil, c.TryAgain()
	})
}

func (ps *playerService) Reveal(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		_, err := c.RevealAnswer()
		return nil, err
	})
}

func (ps *playerService) Explanation(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		_, err := c.ShowExplanation()
		return nil, err
	})
}

func (ps *playerService) Continue(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		return nil, c.Continue()
	})
}

func (ps *playerService) Complete(ctx context.Context, sessionID string) (*PlayerView, error) {
	return ps.mutate(ctx, sessionID, func(c *player.Controller) (*bool, error) {
		_, err := c.CompleteLesson()
		return nil, err
	})
}

// Page renders the whole lesson page for the session's current state.
func (ps *playerService) Page(ctx context.Context, sessionID string) ([]byte, error) {
	sess, ctrl, err := ps.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data := render.PageData{
		CourseTitle:       sess.Titles.Course,
		ChapterTitle:      sess.Titles.Chapter,
		LessonTitle:       sess.Titles.Lesson,
		LessonDescription: sess.Titles.LessonDescription,
		CourseURL:         ctrl.NavigationTarget(),
		Progress:          ctrl.Progress(),
		Complete:          ctrl.IsComplete(),
	}
	for _, done := range ctrl.Completed() {
		data.Completed = append(data.Completed, render.Render(done.Content, render.Options{
			Answer:   done.UserAnswer,
			Checking: done.Content.IsQuestion(),
		}))
	}
	data.Current = currentView(ctrl)
	var buf bytes.Buffer
	if err := render.Page(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mutate runs op under the session lock and persists the result. A rejected
// transition leaves the stored session untouched.
func (ps *playerService) mutate(ctx context.Context, sessionID string, op func(*player.Controller) (*bool, error)) (*PlayerView, error) {
	sessionID = strings.TrimSpace(sessionID)
	unlock := ps.locks.Lock(sessionID)
	defer unlock()

	sess, ctrl, err := ps.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	correct, err := op(ctrl)
	if err != nil {
		return nil, playerError(err)
	}
	sess.Player = ctrl.Snapshot()
	sess.UpdatedAt = ps.now().UTC()
	if err := ps.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save player session: %w", err)
	}
	return buildView(sess, ctrl, correct), nil
}

func (ps *playerService) load(ctx context.Context, sessionID string) (*sessions.Session, *player.Controller, error) {
	sessionID = strings.TrimSpace(sessionID)
	sess, err := ps.store.Get(ctx, sessionID)
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, nil, apierr.NotFound("session_not_found", "Session not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load player session: %w", err)
	}
	ctrl, err := player.Restore(sess.Player)
	if err != nil {
		ps.log.Warn("Corrupt player session", "session_id", sessionID, "error", err)
		_ = ps.store.Delete(ctx, sessionID)
		return nil, nil, apierr.NotFound("session_not_found", "Session not found")
	}
	return sess, ctrl, nil
}

func currentView(ctrl *player.Controller) *render.View {
	if ctrl.IsComplete() {
		return nil
	}
	state := ctrl.State()
	v := render.Render(ctrl.Current(), render.Options{
		Current:         true,
		Final:           ctrl.IsFinal(),
		Answer:          ctrl.AnswerFor(ctrl.CurrentIndex()),
		Checking:        state == player.StateChecking || state == player.StateError || state == player.StateExplained,
		ShowError:       state == player.StateError,
		ShowExplanation: state == player.StateExplained,
	})
	return &v
}

func buildView(sess *sessions.Session, ctrl *player.Controller, correct *bool) *PlayerView {
	v := &PlayerView{
		SessionID:    sess.ID,
		CourseID:     sess.CourseID,
		ChapterID:    sess.ChapterID,
		LessonID:     sess.LessonID,
		CourseTitle:  sess.Titles.Course,
		ChapterTitle: sess.Titles.Chapter,
		LessonTitle:  sess.Titles.Lesson,
		State:        ctrl.State(),
		Index:        ctrl.CurrentIndex(),
		Total:        ctrl.Len(),
		Progress:     ctrl.Progress(),
		IsFinal:      ctrl.IsFinal(),
		Answer:       ctrl.AnswerFor(ctrl.CurrentIndex()),
		Correct:      correct,
		Explanation:  ctrl.ExplanationText(),
		Completed:    ctrl.Completed(),
		CurrentView:  currentView(ctrl),
	}
	if ctrl.IsComplete() {
		v.NavigateTo = ctrl.NavigationTarget()
	} else {
		cur := ctrl.Current()
		v.Current = &cur
	}
	return v
}

func lookupError(err error) error {
	var nf *lookup.NotFoundError
	if errors.As(err, &nf) {
		return apierr.NotFound(strings.ToLower(nf.Entity)+"_not_found", nf.Error())
	}
	return err
}

func playerError(err error) error {
	switch {
	case errors.Is(err, player.ErrEmptyLesson):
		return apierr.New(http.StatusUnprocessableEntity, "empty_lesson", errors.New("Lesson has no content"))
	case errors.Is(err, player.ErrIndexOutOfRange):
		return apierr.BadRequest("index_out_of_range", err)
	case errors.Is(err, player.ErrNotQuestion):
		return apierr.Conflict("not_question", err)
	case errors.Is(err, player.ErrAnswerNotVerified):
		return apierr.Conflict("answer_not_verified", err)
	case errors.Is(err, player.ErrNoIncorrectAttempt):
		return apierr.Conflict("no_incorrect_attempt", err)
	case errors.Is(err, player.ErrNotFinal):
		return apierr.Conflict("not_final", err)
	case errors.Is(err, player.ErrLessonComplete):
		return apierr.Conflict("lesson_complete", err)
	}
	return err
}
