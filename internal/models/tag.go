package models

// Bootstrap color class suffixes the templates understand.
var TagColors = map[string]string{
	"pri": "primary",
	"sec": "secondary",
	"suc": "success",
	"dan": "danger",
	"war": "warning",
	"inf": "info",
	"lig": "light",
	"dar": "dark",
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:30;not null" json:"name"`
	Color string `gorm:"size:3;default:'pri';not null" json:"color"`

	// 非数据库字段，用于热门标签查询时填充
	QuestionCount int `gorm:"-" json:"question_count"`
}

// ColorClass maps the stored 3-letter code to its full Bootstrap name.
func (t *Tag) ColorClass() string {
	if full, ok := TagColors[t.Color]; ok {
		return full
	}
	return "primary"
}
