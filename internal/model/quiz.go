package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CreatorID    uint       `gorm:"index" json:"creatorId"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	TimeLimit    int        `gorm:"default:0" json:"timeLimit"` // minutes, 0 = unlimited
	PassingScore float64    `gorm:"default:60" json:"passingScore"` // percentage
	IsPublished  bool       `gorm:"default:false" json:"isPublished"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
