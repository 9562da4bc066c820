package model

import "time"

// Dream — описание сна пользователя и полученная интерпретация.
type Dream struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;index"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	DreamDescription string  `gorm:"type:text;not null"`
	Interpretation   *string `gorm:"type:text"`

	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// InterpretationText возвращает интерпретацию или пустую строку.
func (d Dream) InterpretationText() string {
	if d.Interpretation == nil {
		return ""
	}
	return *d.Interpretation
}
