package handlers

import (
	"github.com/gin-gonic/gin"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
)

var kindCodes = map[apierrors.Kind]string{
	apierrors.KindValidation:      "VALIDATION_ERROR",
	apierrors.KindUnauthenticated: "UNAUTHENTICATED",
	apierrors.KindNotFound:        "NOT_FOUND",
	apierrors.KindConflict:        "CONFLICT",
	apierrors.KindUpstream:        "INTERNAL_ERROR",
}

// respondError translates a service error into the HTTP error body.
// Every handler funnels failures through here so the kind-to-status
// mapping lives in one place.
func respondError(c *gin.Context, err error) {
	kind := apierrors.KindOf(err)
	c.JSON(apierrors.StatusCode(err), models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    kindCodes[kind],
			Message: apierrors.PublicMessage(err),
		},
	})
}
