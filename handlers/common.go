package handlers

import (
	"log"
	"net/http"
	"tavern/access"
	"tavern/dice"
	"tavern/models"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	NopeResponse     = Response{"nope"}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
)

// errorStatus maps domain errors to HTTP status codes, anything unknown is a 500
func errorStatus(err error) int {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, access.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvitationExpired):
		return http.StatusGone
	case errors.Is(err, access.ErrOwnerRemovalForbidden),
		errors.Is(err, access.ErrOwnerRoleForbidden),
		errors.Is(err, access.ErrInvalidInput),
		errors.Is(err, models.ErrNotMember),
		errors.Is(err, models.ErrInvalidReference),
		errors.Is(err, models.ErrInvalidCalendar),
		errors.Is(err, dice.ErrInvalidFormula):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, DBError1Response)
		return
	}
	c.JSON(status, Response{err.Error()})
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return false
	}
	return true
}
