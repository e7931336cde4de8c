package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"askme/internal/db"
	"askme/internal/middleware"
	"askme/internal/services"
)

// Render helper to inject common variables like 'current user' and the
// popular-tag sidebar.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}

	if db.DB != nil {
		if tags, err := services.NewTagService(db.DB).Popular(); err == nil {
			obj["PopularTags"] = tags
		}
	}

	obj["CurrentPath"] = c.Request.URL.Path
	if _, ok := obj["Active"]; !ok {
		obj["Active"] = ""
	}

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// JSONError writes a service error as a structured payload on the
// fetch endpoints.
func JSONError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
