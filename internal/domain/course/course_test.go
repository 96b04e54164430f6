package course

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

func TestCourseJSONFlattensTags(t *testing.T) {
	c := Course{ID: uuid.New(), Title: "Algebra", Tags: []Tag{{Name: "algebra"}, {Name: "beginner"}}}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"tags":["algebra","beginner"]`) {
		t.Fatalf("expected flattened tags, got %s", b)
	}
}

func TestLessonContentItem(t *testing.T) {
	lessonID := uuid.New()
	row, err := NewLessonContent(lessonID, 2, content.NewVideo(content.Video{URL: "https://v", Duration: 30}))
	if err != nil {
		t.Fatalf("NewLessonContent: %v", err)
	}
	if row.ContentType != "video" || row.SortOrder != 2 || row.LessonID != lessonID {
		t.Fatalf("unexpected row: %+v", row)
	}
	it, err := row.Item()
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if it.Video == nil || it.Video.Duration != 30 {
		t.Fatalf("unexpected item: %+v", it)
	}
}
