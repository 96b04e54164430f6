package render

import (
	"fmt"
	"io"
)

// PageData is everything the lesson page shows: breadcrumb, progress bar,
// the items already completed and the current one.
type PageData struct {
	CourseTitle       string
	ChapterTitle      string
	LessonTitle       string
	LessonDescription string
	CourseURL         string
	Progress          int
	Complete          bool
	Completed         []View
	Current           *View
}

func Page(w io.Writer, data PageData) error {
	if data.Progress < 0 {
		data.Progress = 0
	}
	if data.Progress > 100 {
		data.Progress = 100
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
