package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	UserToken     repos.UserTokenRepo
	Course        repos.CourseRepo
	Chapter       repos.ChapterRepo
	Lesson        repos.LessonRepo
	LessonContent repos.LessonContentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		UserToken:     repos.NewUserTokenRepo(db, log),
		Course:        repos.NewCourseRepo(db, log),
		Chapter:       repos.NewChapterRepo(db, log),
		Lesson:        repos.NewLessonRepo(db, log),
		LessonContent: repos.NewLessonContentRepo(db, log),
	}
}
