package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type ImportRepos struct {
	Courses  repos.CourseRepo
	Chapters repos.ChapterRepo
	Lessons  repos.LessonRepo
	Contents repos.LessonContentRepo
}

// ImportIfEmpty copies the catalog into the database when no course exists
// yet. It reports whether anything was written.
func ImportIfEmpty(ctx context.Context, db *gorm.DB, r ImportRepos, cat *Catalog, log *logger.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&types.Course{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return importAll(dbctx.Context{Ctx: ctx, Tx: tx}, r, cat)
	})
	if err != nil {
		return false, err
	}
	if log != nil {
		log.Info("Imported seed catalog", "courses", len(cat.courses), "lessons", len(cat.lessons))
	}
	return true, nil
}

func importAll(dbc dbctx.Context, r ImportRepos, cat *Catalog) error {
	for _, src := range cat.courses {
		// Fresh structs keep gorm from upserting preloaded associations.
		course := &types.Course{ID: src.ID, Title: src.Title, Description: src.Description, Image: src.Image}
		if _, err := r.Courses.Create(dbc, course, src.TagNames()); err != nil {
			return fmt.Errorf("import course %s: %w", src.ID, err)
		}
		for _, ch := range src.Chapters {
			chapter := &types.Chapter{
				ID:          ch.ID,
				CourseID:    ch.CourseID,
				Title:       ch.Title,
				Description: ch.Description,
				Image:       ch.Image,
				SortOrder:   ch.SortOrder,
			}
			if _, err := r.Chapters.Create(dbc, []*types.Chapter{chapter}); err != nil {
				return fmt.Errorf("import chapter %s: %w", ch.ID, err)
			}
			for _, ls := range ch.Lessons {
				lesson := &types.Lesson{
					ID:          ls.ID,
					CourseID:    ls.CourseID,
					ChapterID:   ls.ChapterID,
					Title:       ls.Title,
					Description: ls.Description,
					SortOrder:   ls.SortOrder,
				}
				if _, err := r.Lessons.Create(dbc, []*types.Lesson{lesson}); err != nil {
					return fmt.Errorf("import lesson %s: %w", ls.ID, err)
				}
				items := cat.contents[ls.ID]
				if len(items) == 0 {
					continue
				}
				rows := make([]*types.LessonContent, 0, len(items))
				for i, it := range items {
					row, err := types.NewLessonContent(ls.ID, i, it)
					if err != nil {
						return fmt.Errorf("encode content %d of lesson %s: %w", i, ls.ID, err)
					}
					rows = append(rows, row)
				}
				if _, err := r.Contents.Create(dbc, rows); err != nil {
					return fmt.Errorf("import contents of lesson %s: %w", ls.ID, err)
				}
			}
		}
	}
	return nil
}
