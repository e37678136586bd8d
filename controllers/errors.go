package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
)

// respondError writes the client-facing form of err. Anything unexpected
// is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": verr.Fields})
	case errors.Is(err, services.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number already registered."})
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrActorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrReporterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reporting user not found"})
	case errors.Is(err, services.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Println("Request failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// discardPhoto removes an upload whose request failed after it was saved.
func discardPhoto(photos *storage.Photos, ref *string) {
	if ref == nil {
		return
	}
	if err := photos.Remove(*ref); err != nil {
		log.Println("Error removing orphaned photo:", err)
	}
}
