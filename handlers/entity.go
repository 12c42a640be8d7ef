package handlers

import (
	"net/http"
	"tavern/access"
	"tavern/auth"
	"tavern/db"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entityPtr[T any] interface {
	*T
	models.CampaignEntity
}

// inputPtr is the request body of one entity kind
type inputPtr[T, I any] interface {
	*I
	entityFields() *EntityFields
	apply(entity *T)
}

// entityValidator checks references of the entity before it is written
type entityValidator[T any] interface {
	validate(tx *gorm.DB, entity *T) error
}

// entityLinker writes the child rows of an entity once it has an ID
type entityLinker[T any] interface {
	link(tx *gorm.DB, entity *T) error
}

// EntityFields are the request fields every entity kind shares
type EntityFields struct {
	Name        string  `json:"name" binding:"required,max=300"`
	Description string  `json:"description"`
	Private     bool    `json:"private"`
	ImageID     *string `json:"image_id"`
}

func (f *EntityFields) entityFields() *EntityFields {
	return f
}

func (f *EntityFields) applyTo(e *models.Entity) {
	e.Name = f.Name
	e.Description = f.Description
	e.Private = f.Private
	e.ImageID = optionalID(f.ImageID)
}

func optionalID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// EntityRoutes registers list, detail, create, save and delete for every entity kind
func EntityRoutes(r *auth.Router) {
	entityRoutes[models.Character, CharacterInput](r, "characters")
	entityRoutes[models.Creature, CreatureInput](r, "creatures")
	entityRoutes[models.Item, ItemInput](r, "items")
	entityRoutes[models.Location, LocationInput](r, "locations")
	entityRoutes[models.Note, NoteInput](r, "notes")
	entityRoutes[models.Ability, AbilityInput](r, "abilities")
	entityRoutes[models.Calendar, CalendarInput](r, "calendars")
	entityRoutes[models.Timeline, TimelineInput](r, "timelines")
}

func entityRoutes[T, I any, PT entityPtr[T], PI inputPtr[T, I]](r *auth.Router, kind string) {
	base := "/campaign/:campaign/" + kind
	r.CampaignGET(base, EntityList[T, PT], access.ViewCampaign)
	r.CampaignGET(base+"/:id", EntityGet[T, PT], access.ViewCampaign)
	r.CampaignPOST(base+"/create", EntityCreate[T, I, PT, PI], access.EditEntities)
	r.CampaignPOST(base+"/:id/save", EntitySave[T, I, PT, PI], access.EditEntities)
	r.CampaignPOST(base+"/:id/delete", EntityDelete[T, PT], access.DeleteEntities)
}

// EntityList returns the entities of a kind without their associations
func EntityList[T any, PT entityPtr[T]](c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	showPrivate := scope.Can(access.ViewPrivate)
	query := func() *gorm.DB {
		return models.CampaignQuery(db.Instance.Model(PT(new(T))), scope.Campaign.ID, showPrivate)
	}
	variant := "public"
	if showPrivate {
		variant = "all"
	}
	if isNotModified(c, query().Select("coalesce(max(updated_at), 0), count(*)"), variant) {
		return
	}
	result := []T{}
	if err := query().Order("name").Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

func EntityGet[T any, PT entityPtr[T]](c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	entity := PT(new(T))
	if err := models.FindEntity(db.Instance, entity, scope.Campaign.ID, c.Param("id"), scope.Can(access.ViewPrivate)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func EntityCreate[T, I any, PT entityPtr[T], PI inputPtr[T, I]](c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	entity := PT(new(T))
	e := entity.GetEntity()
	e.CampaignID = scope.Campaign.ID
	e.CreatedByID = user.ID
	writeEntity[T, I, PT, PI](c, scope, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

func EntitySave[T, I any, PT entityPtr[T], PI inputPtr[T, I]](c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	entity := PT(new(T))
	if err := models.FindEntity(db.Instance, entity, scope.Campaign.ID, c.Param("id"), scope.Can(access.ViewPrivate)); err != nil {
		respondError(c, err)
		return
	}
	writeEntity[T, I, PT, PI](c, scope, entity, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
}

// writeEntity binds the request into entity and stores it with its child rows
// in one transaction
func writeEntity[T, I any, PT entityPtr[T], PI inputPtr[T, I]](c *gin.Context, scope *auth.CampaignScope, entity PT, write func(tx *gorm.DB) error) {
	input := PI(new(I))
	if !bindJSON(c, input) {
		return
	}
	fields := input.entityFields()
	if fields.Private && !scope.Can(access.ViewPrivate) {
		c.JSON(http.StatusForbidden, Response{access.ErrForbidden.Error()})
		return
	}
	e := entity.GetEntity()
	fields.applyTo(e)
	input.apply((*T)(entity))

	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := models.CheckReference(tx, &models.Image{}, e.CampaignID, e.ImageID); err != nil {
			return err
		}
		if v, ok := any(input).(entityValidator[T]); ok {
			if err := v.validate(tx, (*T)(entity)); err != nil {
				return err
			}
		}
		if err := write(tx); err != nil {
			return err
		}
		if l, ok := any(input).(entityLinker[T]); ok {
			return l.link(tx, (*T)(entity))
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	saved := PT(new(T))
	if err = models.FindEntity(db.Instance, saved, e.CampaignID, e.ID, true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// EntityDelete also clears the rows pointing at the entity
func EntityDelete[T any, PT entityPtr[T]](c *gin.Context, user *models.User, scope *auth.CampaignScope) {
	entity := PT(new(T))
	if err := models.FindEntity(db.Instance, entity, scope.Campaign.ID, c.Param("id"), scope.Can(access.ViewPrivate)); err != nil {
		respondError(c, err)
		return
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if d, ok := any(entity).(models.DependentsRemover); ok {
			if err := d.DeleteDependents(tx); err != nil {
				return err
			}
		}
		return tx.Delete(entity).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
