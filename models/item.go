package models

type Item struct {
	Entity
	CharacterID *string `gorm:"type:varchar(36);index" json:"character_id"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	Rarity      string  `gorm:"type:varchar(50)" json:"rarity"`
	Value       string  `gorm:"type:varchar(100)" json:"value"`
}
