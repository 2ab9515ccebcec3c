package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Levels []SubscribedLevel `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscribedLevel maps a subscription to a garage level index. Levels are
// structural (fixed at garage construction), so the index itself is the
// key; there is no levels table to reference.
type SubscribedLevel struct {
	Endpoint   string `gorm:"primaryKey"`
	LevelIndex int    `gorm:"primaryKey"`
}
