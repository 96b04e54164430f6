package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

// LessonContent is the stored form of one content.Item.
type LessonContent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_lesson_content_order,priority:1" json:"lesson_id"`
	ContentType string         `gorm:"column:content_type;not null" json:"content_type"`
	SortOrder   int            `gorm:"column:sort_order;not null;index:idx_lesson_content_order,priority:2" json:"sort_order"`
	Data        datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonContent) TableName() string { return "lesson_content" }

func (lc *LessonContent) BeforeCreate(tx *gorm.DB) error {
	if lc.ID == uuid.Nil {
		lc.ID = uuid.New()
	}
	return nil
}

func NewLessonContent(lessonID uuid.UUID, sortOrder int, item content.Item) (*LessonContent, error) {
	data, err := item.Data()
	if err != nil {
		return nil, err
	}
	return &LessonContent{
		LessonID:    lessonID,
		ContentType: string(item.Type),
		SortOrder:   sortOrder,
		Data:        datatypes.JSON(data),
	}, nil
}

func (lc LessonContent) Item() (content.Item, error) {
	return content.Decode(content.Type(lc.ContentType), lc.Data)
}

// Items decodes contents in slice order.
func Items(rows []*LessonContent) ([]content.Item, error) {
	out := make([]content.Item, 0, len(rows))
	for _, row := range rows {
		it, err := row.Item()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
