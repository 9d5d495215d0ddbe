package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the optional account for the login gate. It deliberately has no
// relation to the sheet tables: authentication sits in front of the router,
// not inside the data model.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"type:varchar(200);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (User) TableName() string {
	return "users"
}
