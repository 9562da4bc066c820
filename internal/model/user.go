package model

// User — зарегистрированный пользователь. Пароль хранится только как bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:20;uniqueIndex;not null"`
	Email    string `gorm:"size:50;uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"`
}
