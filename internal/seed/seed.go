package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type file struct {
	Courses []courseDoc `yaml:"courses"`
}

type courseDoc struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Image       string       `yaml:"image"`
	Tags        []string     `yaml:"tags"`
	Chapters    []chapterDoc `yaml:"chapters"`
}

type chapterDoc struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Image       string      `yaml:"image"`
	Lessons     []lessonDoc `yaml:"lessons"`
}

type lessonDoc struct {
	ID          string                   `yaml:"id"`
	Title       string                   `yaml:"title"`
	Description string                   `yaml:"description"`
	Contents    []map[string]interface{} `yaml:"contents"`
}

// Catalog is a read-only course tree held in memory. It satisfies
// lookup.Source.
type Catalog struct {
	courses  []*types.Course
	byCourse map[uuid.UUID]*types.Course
	chapters map[uuid.UUID]*types.Chapter
	lessons  map[uuid.UUID]*types.Lesson
	contents map[uuid.UUID][]content.Item
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	c := &Catalog{
		byCourse: map[uuid.UUID]*types.Course{},
		chapters: map[uuid.UUID]*types.Chapter{},
		lessons:  map[uuid.UUID]*types.Lesson{},
		contents: map[uuid.UUID][]content.Item{},
	}
	for _, cd := range f.Courses {
		courseID, err := parseSeedID("course", cd.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byCourse[courseID]; dup {
			return nil, fmt.Errorf("duplicate course id %s", courseID)
		}
		course := &types.Course{ID: courseID, Title: cd.Title, Description: cd.Description, Image: cd.Image}
		for _, name := range cd.Tags {
			course.Tags = append(course.Tags, types.Tag{Name: name})
		}
		for ci, chd := range cd.Chapters {
			chapter, err := c.addChapter(course, ci, chd)
			if err != nil {
				return nil, err
			}
			course.Chapters = append(course.Chapters, *chapter)
		}
		c.courses = append(c.courses, course)
		c.byCourse[courseID] = course
	}
	return c, nil
}

func (c *Catalog) addChapter(course *types.Course, order int, chd chapterDoc) (*types.Chapter, error) {
	chapterID, err := parseSeedID("chapter", chd.ID)
	if err != nil {
		return nil, err
	}
	if _, dup := c.chapters[chapterID]; dup {
		return nil, fmt.Errorf("duplicate chapter id %s", chapterID)
	}
	chapter := &types.Chapter{
		ID:          chapterID,
		CourseID:    course.ID,
		Title:       chd.Title,
		Description: chd.Description,
		Image:       chd.Image,
		SortOrder:   order,
	}
	for li, ld := range chd.Lessons {
		lessonID, err := parseSeedID("lesson", ld.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := c.lessons[lessonID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %s", lessonID)
		}
		items, err := decodeContents(ld.Contents)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", lessonID, err)
		}
		lesson := &types.Lesson{
			ID:          lessonID,
			CourseID:    course.ID,
			ChapterID:   chapterID,
			Title:       ld.Title,
			Description: ld.Description,
			SortOrder:   li,
		}
		chapter.Lessons = append(chapter.Lessons, *lesson)
		c.lessons[lessonID] = lesson
		c.contents[lessonID] = items
	}
	c.chapters[chapterID] = chapter
	return chapter, nil
}

// decodeContents goes through JSON so seed items share the API's decoding
// and validation rules.
func decodeContents(docs []map[string]interface{}) ([]content.Item, error) {
	items := make([]content.Item, 0, len(docs))
	for i, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("content %d: %w", i, err)
		}
		var it content.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("content %d: %w", i, err)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("content %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func parseSeedID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s id %q: %w", kind, raw, err)
	}
	return id, nil
}

func (c *Catalog) Courses() []*types.Course {
	out := make([]*types.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

func (c *Catalog) ListCourses(ctx context.Context) ([]*types.Course, error) {
	return c.Courses(), nil
}

func (c *Catalog) GetCourse(ctx context.Context, courseID string) (*types.Course, error) {
	id, err := uuid.Parse(courseID)
	if err != nil {
		return nil, nil
	}
	return c.byCourse[id], nil
}

func (c *Catalog) ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error) {
	out := []*types.Chapter{}
	course, _ := c.GetCourse(ctx, courseID)
	if course == nil {
		return out, nil
	}
	for i := range course.Chapters {
		out = append(out, c.chapters[course.Chapters[i].ID])
	}
	return out, nil
}

func (c *Catalog) GetChapter(ctx context.Context, chapterID string) (*types.Chapter, error) {
	id, err := uuid.Parse(chapterID)
	if err != nil {
		return nil, nil
	}
	return c.chapters[id], nil
}

func (c *Catalog) ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error) {
	out := []*types.Lesson{}
	chapter, _ := c.GetChapter(ctx, chapterID)
	if chapter == nil {
		return out, nil
	}
	for i := range chapter.Lessons {
		out = append(out, c.lessons[chapter.Lessons[i].ID])
	}
	return out, nil
}

func (c *Catalog) GetLesson(ctx context.Context, lessonID string) (*types.Lesson, error) {
	id, err := uuid.Parse(lessonID)
	if err != nil {
		return nil, nil
	}
	return c.lessons[id], nil
}

func (c *Catalog) LessonContents(ctx context.Context, lessonID string) ([]content.Item, error) {
	id, err := uuid.Parse(lessonID)
	if err != nil {
		return []content.Item{}, nil
	}
	items := c.contents[id]
	out := make([]content.Item, len(items))
	copy(out, items)
	return out, nil
}
