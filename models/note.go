package models

type Note struct {
	Entity
	Content string `gorm:"type:text" json:"content"`
}
