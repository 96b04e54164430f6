package course

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    *uuid.UUID `gorm:"type:uuid;index" json:"author_id,omitempty"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Image       string     `gorm:"column:image" json:"image,omitempty"`

	Tags     []Tag     `gorm:"many2many:course_tag;joinForeignKey:CourseID;joinReferences:TagID" json:"-"`
	Chapters []Chapter `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TagNames lists tag names in stored order.
func (c Course) TagNames() []string {
	out := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		out = append(out, t.Name)
	}
	return out
}

// MarshalJSON flattens tags to their names.
func (c Course) MarshalJSON() ([]byte, error) {
	type alias Course
	return json.Marshal(struct {
		alias
		Tags []string `json:"tags"`
	}{alias: alias(c), Tags: c.TagNames()})
}

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Image       string    `gorm:"column:image" json:"image,omitempty"`
	SortOrder   int       `gorm:"column:sort_order;not null;index" json:"sort_order"`

	Lessons []Lesson `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Chapter) TableName() string { return "chapter" }

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	ChapterID   uuid.UUID `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	SortOrder   int       `gorm:"column:sort_order;not null;index" json:"sort_order"`

	Contents []LessonContent `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
