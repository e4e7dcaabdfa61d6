package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wanted is an entry on the Admin-managed wanted list.
type Wanted struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Callsign  string          `json:"callsign" gorm:"size:100;not null;index"`
	FullName  string          `json:"full_name" gorm:"size:255;not null"`
	FaceID    string          `json:"face_id" gorm:"column:face_id;uniqueIndex;size:50;not null"`
	Role      Role            `json:"role" gorm:"size:50;not null;default:'Neutral'"`
	Reward    decimal.Decimal `json:"reward" gorm:"type:decimal(15,2);not null"`
	LastSeen  string          `json:"last_seen" gorm:"size:255;not null"`
	Reason    string          `json:"reason" gorm:"type:text;not null"`
	PhotoRef  string          `json:"photo_ref,omitempty" gorm:"size:255"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName keeps the table name singular like the rest of the dossier.
func (Wanted) TableName() string {
	return "wanted"
}
