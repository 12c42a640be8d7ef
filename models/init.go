package models

import (
	"log"
	"tavern/config"
	"tavern/db"

	"gorm.io/gorm"
)

func Init() {
	if err := Migrate(db.Instance); err != nil {
		panic(err)
	}
	created, err := EnsureAdmin(db.Instance, config.ADMIN_EMAIL, config.ADMIN_PASSWORD)
	if err != nil {
		log.Printf("Cannot create admin user: %v", err)
	} else if created {
		log.Printf("Admin user created: %s", config.ADMIN_EMAIL)
	}
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&User{},
		&Grant{},
		&Campaign{},
		&CampaignRole{},
		&Invitation{},
		&Image{},
		&Character{},
		&Item{},
		&Location{},
		&Creature{},
		&Ability{},
		&Note{},
		&Calendar{},
		&CalendarMonth{},
		&Timeline{},
		&TimelineEvent{},
		&Post{},
		&DiceRoll{},
	)
}
