package model

import "time"

// Stalker is an operative record owned by a faction.
// Callsign and FaceID are unique across all factions.
type Stalker struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Callsign  string    `json:"callsign" gorm:"uniqueIndex;size:100;not null"`
	FullName  string    `json:"full_name" gorm:"size:255;not null;index"`
	FaceID    string    `json:"face_id" gorm:"column:face_id;uniqueIndex;size:50;not null"`
	Role      Role      `json:"role" gorm:"size:50;not null;index"`
	Note      string    `json:"note" gorm:"type:text"`
	PhotoRef  string    `json:"photo_ref,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}
