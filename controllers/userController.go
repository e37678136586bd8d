package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/middlewares"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/services"
)

type UserController struct {
	Identity *services.Identity
}

// GetProfile returns any user's public profile.
func (uc *UserController) GetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid user ID")
		return
	}
	profile, err := uc.Identity.GetProfile(c.Request.Context(), id, models.Role(c.Param("role")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the session actor's own profile.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input services.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	session, _ := middlewares.CurrentSession(c)
	if err := uc.Identity.UpdateProfile(c.Request.Context(), session.ActorID, session.Role, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!"})
}

// ChangePassword rotates the session actor's password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	session, _ := middlewares.CurrentSession(c)
	err := uc.Identity.ChangePassword(c.Request.Context(), session.ActorID, session.Role,
		session.Username, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}
