package models

type User struct {
	BaseModel
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"not null" json:"role"`
	Status       UserStatus `gorm:"not null;default:'active'" json:"status"`
}
