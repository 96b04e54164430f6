package domain

import (
	"github.com/yungbote/mathstep-backend/internal/domain/auth"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/domain/course"
	"github.com/yungbote/mathstep-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Course = course.Course
type Tag = course.Tag
type Chapter = course.Chapter
type Lesson = course.Lesson
type LessonContent = course.LessonContent

type ContentItem = content.Item
type Answer = content.Answer

var (
	NewLessonContent = course.NewLessonContent
	ContentItems     = course.Items
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Course{},
		&Tag{},
		&Chapter{},
		&Lesson{},
		&LessonContent{},
	}
}
