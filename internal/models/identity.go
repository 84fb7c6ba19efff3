package models

import "time"

// User is a lab member who works under one or more PIs.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:80;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PIs          []PI `gorm:"many2many:user_pis;joinForeignKey:user_id;joinReferences:pi_id"`
}

// PI is a principal investigator. PIs own rooms and, through them, chemicals.
type PI struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:80;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Rooms        []Room `gorm:"foreignKey:PIID;constraint:OnDelete:RESTRICT"`
}

func (User) TableName() string {
	return "users"
}

func (PI) TableName() string {
	return "pis"
}
