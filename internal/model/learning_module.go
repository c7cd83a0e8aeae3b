package model

type LearningModule struct {
	BaseModel
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"size:100;index" json:"category"`
	Order       int     `gorm:"default:0" json:"order"`
	IsPublished bool    `gorm:"default:false" json:"isPublished"`
	Slides      []Slide `gorm:"foreignKey:ModuleID" json:"slides,omitempty"`
}

func (LearningModule) TableName() string {
	return "learning_modules"
}

// Slide 模块下的学习页，MediaURL 对评分系统完全不透明
type Slide struct {
	BaseModel
	ModuleID uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title    string `gorm:"size:255" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	MediaURL string `gorm:"size:512" json:"mediaUrl,omitempty"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (Slide) TableName() string {
	return "slides"
}
