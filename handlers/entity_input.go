package handlers

import (
	"tavern/models"

	"gorm.io/gorm"
)

type CharacterInput struct {
	EntityFields
	Player    string `json:"player" binding:"max=100"`
	Race      string `json:"race" binding:"max=100"`
	Class     string `json:"class" binding:"max=100"`
	Level     int    `json:"level" binding:"min=0,max=1000"`
	HitPoints int    `json:"hit_points"`
	Alive     *bool  `json:"alive"` // new characters are alive unless told otherwise
}

func (in *CharacterInput) apply(c *models.Character) {
	c.Player = in.Player
	c.Race = in.Race
	c.Class = in.Class
	c.Level = in.Level
	c.HitPoints = in.HitPoints
	if in.Alive != nil {
		c.Alive = *in.Alive
	} else if c.ID == "" {
		c.Alive = true
	}
}

type ItemInput struct {
	EntityFields
	CharacterID *string `json:"character_id"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	Rarity      string  `json:"rarity" binding:"max=50"`
	Value       string  `json:"value" binding:"max=100"`
}

func (in *ItemInput) apply(i *models.Item) {
	i.CharacterID = optionalID(in.CharacterID)
	i.Quantity = in.Quantity
	i.Rarity = in.Rarity
	i.Value = in.Value
}

func (in *ItemInput) validate(tx *gorm.DB, i *models.Item) error {
	return models.CheckReference(tx, &models.Character{}, i.CampaignID, i.CharacterID)
}

type LocationInput struct {
	EntityFields
	Kind   string `json:"kind" binding:"max=100"`
	Region string `json:"region" binding:"max=300"`
}

func (in *LocationInput) apply(l *models.Location) {
	l.Kind = in.Kind
	l.Region = in.Region
}

type CreatureInput struct {
	EntityFields
	ParentID        *string  `json:"parent_id"`
	ChallengeRating string   `json:"challenge_rating" binding:"max=20"`
	ArmorClass      int      `json:"armor_class"`
	HitPoints       int      `json:"hit_points"`
	LocationIDs     []string `json:"location_ids"`
}

func (in *CreatureInput) apply(c *models.Creature) {
	c.ParentID = optionalID(in.ParentID)
	c.ChallengeRating = in.ChallengeRating
	c.ArmorClass = in.ArmorClass
	c.HitPoints = in.HitPoints
}

func (in *CreatureInput) validate(tx *gorm.DB, c *models.Creature) error {
	return c.CheckParent(tx)
}

func (in *CreatureInput) link(tx *gorm.DB, c *models.Creature) error {
	return c.SetLocations(tx, in.LocationIDs)
}

type AbilityInput struct {
	EntityFields
	ParentID *string `json:"parent_id"`
	Kind     string  `json:"kind" binding:"max=100"`
	Level    int     `json:"level"`
	Cost     string  `json:"cost" binding:"max=100"`
}

func (in *AbilityInput) apply(a *models.Ability) {
	a.ParentID = optionalID(in.ParentID)
	a.Kind = in.Kind
	a.Level = in.Level
	a.Cost = in.Cost
}

func (in *AbilityInput) validate(tx *gorm.DB, a *models.Ability) error {
	return a.CheckParent(tx)
}

type NoteInput struct {
	EntityFields
	Content string `json:"content"`
}

func (in *NoteInput) apply(n *models.Note) {
	n.Content = in.Content
}

type MonthInput struct {
	Name string `json:"name" binding:"required,max=100"`
	Days int    `json:"days" binding:"min=1,max=1000"`
}

type CalendarInput struct {
	EntityFields
	DaysPerWeek  int          `json:"days_per_week" binding:"min=1,max=100"`
	CurrentYear  int          `json:"current_year"`
	CurrentMonth int          `json:"current_month"`
	CurrentDay   int          `json:"current_day"`
	Months       []MonthInput `json:"months" binding:"max=100,dive"`
}

func (in *CalendarInput) apply(c *models.Calendar) {
	c.DaysPerWeek = in.DaysPerWeek
	c.CurrentYear = in.CurrentYear
	c.CurrentMonth = in.CurrentMonth
	c.CurrentDay = in.CurrentDay
	c.Months = make([]models.CalendarMonth, 0, len(in.Months))
	for _, m := range in.Months {
		c.Months = append(c.Months, models.CalendarMonth{Name: m.Name, Days: m.Days})
	}
}

func (in *CalendarInput) validate(tx *gorm.DB, c *models.Calendar) error {
	return c.Validate()
}

func (in *CalendarInput) link(tx *gorm.DB, c *models.Calendar) error {
	return c.SetMonths(tx, c.Months)
}

type EventInput struct {
	Title       string `json:"title" binding:"required,max=300"`
	Date        string `json:"date" binding:"max=100"`
	Description string `json:"description"`
}

type TimelineInput struct {
	EntityFields
	Events []EventInput `json:"events" binding:"max=1000,dive"`
}

func (in *TimelineInput) apply(t *models.Timeline) {}

func (in *TimelineInput) link(tx *gorm.DB, t *models.Timeline) error {
	events := make([]models.TimelineEvent, 0, len(in.Events))
	for _, e := range in.Events {
		events = append(events, models.TimelineEvent{Title: e.Title, Date: e.Date, Description: e.Description})
	}
	return t.SetEvents(tx, events)
}
