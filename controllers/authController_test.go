package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/middlewares"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/store"
)

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.AuthCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middlewares.AuthCookie)
	return nil
}

func TestAuthCookieDomain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		env    string
		domain string
	}{
		{"production", ""},
		{"development", "civicwatch.example"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			identity := services.NewIdentity(store.NewMemory(), nil)
			_, err := identity.Register(context.Background(), services.RegisterInput{
				Role: models.RoleCitizen, Username: "9000000001", Password: "secret123",
				Fullname: "Meera Nair", Age: 29, Address: "7 Temple Street",
			})
			require.NoError(t, err)

			ac := &AuthController{
				Identity: identity,
				Settings: config.Settings{Environment: tt.env, Domain: "civicwatch.example", TokenTTL: time.Hour},
			}
			r := gin.New()
			r.POST("/login", ac.Login)
			r.POST("/logout", ac.Logout)

			login := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"9000000001","password":"secret123"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(login, req)
			require.Equal(t, http.StatusOK, login.Code, login.Body.String())

			logout := httptest.NewRecorder()
			r.ServeHTTP(logout, httptest.NewRequest(http.MethodPost, "/logout", nil))
			require.Equal(t, http.StatusOK, logout.Code)

			set, cleared := authCookie(t, login), authCookie(t, logout)
			assert.Equal(t, tt.domain, set.Domain)
			assert.Equal(t, set.Domain, cleared.Domain)
			assert.Equal(t, set.Path, cleared.Path)
			assert.Empty(t, cleared.Value)
			assert.Less(t, cleared.MaxAge, 0)
		})
	}
}
