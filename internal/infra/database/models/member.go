package models

import (
	"time"
)

type Member struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	ReferrerID *string   `json:"referrerId" gorm:"type:text;index"`
	JoinedAt   time.Time `json:"joinedAt" gorm:"type:timestamp with time zone;not null;index"`
}

type Subscription struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MemberID string    `json:"memberId" gorm:"type:text;not null;index"`
	Member   Member    `json:"-" gorm:"foreignKey:MemberID;references:ID;constraint:OnDelete:CASCADE;"`
	Amount   float64   `json:"amount" gorm:"type:numeric(14,2);not null"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
