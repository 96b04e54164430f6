package repos

import (
	"github.com/yungbote/mathstep-backend/internal/data/repos/auth"
	"github.com/yungbote/mathstep-backend/internal/data/repos/catalog"
	"github.com/yungbote/mathstep-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type CourseRepo = catalog.CourseRepo
type ChapterRepo = catalog.ChapterRepo
type LessonRepo = catalog.LessonRepo
type LessonContentRepo = catalog.LessonContentRepo

var (
	NewUserRepo          = user.NewUserRepo
	NewUserTokenRepo     = auth.NewUserTokenRepo
	NewCourseRepo        = catalog.NewCourseRepo
	NewChapterRepo       = catalog.NewChapterRepo
	NewLessonRepo        = catalog.NewLessonRepo
	NewLessonContentRepo = catalog.NewLessonContentRepo
)
