package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/middlewares"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
	authUtils "github.com/SindhuAbhirami/civic-watch/utils"
)

type AuthController struct {
	Identity *services.Identity
	Photos   *storage.Photos
	Settings config.Settings
}

// Register handles citizen and official sign-up. It accepts JSON or a
// multipart form with an optional "photo" file.
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Role       string `form:"role" json:"role"`
		Phone      string `form:"phone" json:"phone"`
		Password   string `form:"password" json:"password"`
		Fullname   string `form:"fullname" json:"fullname"`
		Age        int    `form:"age" json:"age"`
		Address    string `form:"address" json:"address"`
		Department string `form:"department" json:"department"`
	}
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	reg := services.RegisterInput{
		Role:       models.Role(input.Role),
		Username:   input.Phone,
		Password:   input.Password,
		Fullname:   input.Fullname,
		Age:        input.Age,
		Address:    input.Address,
		Department: input.Department,
	}
	if fh, err := c.FormFile("photo"); err == nil {
		photo, err := ac.Photos.Save(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		reg.PhotoRef = &photo.Ref
	}

	profile, err := ac.Identity.Register(c.Request.Context(), reg)
	if err != nil {
		discardPhoto(ac.Photos, reg.PhotoRef)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! You can now log in.",
		"user":    profile,
	})
}

// Login checks credentials across both roles and starts a session.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	actor, err := ac.Identity.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	summary := actor.Summary()
	token, err := authUtils.GenerateToken(summary, ac.Settings.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(ac.Settings.TokenTTL / time.Second),
		Path:     "/",
		Domain:   ac.cookieDomain(),
		Secure:   ac.Settings.Production(),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"user":    summary,
		"token":   token,
	})
}

// Me returns the profile of the session's actor.
func (ac *AuthController) Me(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	profile, err := ac.Identity.GetProfile(c.Request.Context(), session.ActorID, session.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// cookieDomain is the Domain attribute of the auth cookie. Login and
// Logout must agree on it or the browser keeps the old cookie.
func (ac *AuthController) cookieDomain() string {
	// For production, don't set domain to allow cross-origin cookies
	if ac.Settings.Production() {
		return ""
	}
	return ac.Settings.Domain
}

// Logout clears the auth_token cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Domain:   ac.cookieDomain(),
		Secure:   ac.Settings.Production(),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
