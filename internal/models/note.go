package models

// NoteModel is a user-owned note. Tags and Topics are stored as JSON-encoded
// string arrays; deletes are hard deletes.
type NoteModel struct {
	Base
	UserID  string      `json:"userId"  gorm:"index;not null"`
	Title   string      `json:"title"   gorm:"not null"`
	Content string      `json:"content" gorm:"type:longtext"`
	Tags    StringArray `json:"tags"    gorm:"type:text"`
	Topics  StringArray `json:"topics"  gorm:"type:text"`
}

func (NoteModel) TableName() string { return "notes" }
