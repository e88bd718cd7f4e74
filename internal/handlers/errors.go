package handlers

import (
	"log"
	"net/http"
	"order_queue/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps a service failure to a status code. The cause of an
// internal error is logged and never rendered.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindNoActiveSession, services.KindInvalidArgument:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": services.PublicMessage(err)})
}

// pathID parses the :id parameter. A malformed id is reported as notFound.
func pathID(c *gin.Context, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, notFound)
		return uuid.Nil, false
	}
	return id, true
}
