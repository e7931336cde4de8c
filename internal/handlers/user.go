package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"askme/internal/middleware"
	"askme/internal/services"
	"askme/internal/utils"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{users: services.NewUserService(db)}
}

// ShowEdit handles GET /profile/edit
func (h *UserHandler) ShowEdit(c *gin.Context) {
	Render(c, http.StatusOK, "user/edit.html", gin.H{
		"Title":  "Edit Profile",
		"Emojis": utils.GetCommonEmojis(),
	})
}

// Edit handles POST /profile/edit
func (h *UserHandler) Edit(c *gin.Context) {
	user := currentUser(c)

	updated, err := h.users.UpdateProfile(user.ID, services.ProfileUpdate{
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		NewPassword:    c.PostForm("new_password"),
		PasswordRepeat: c.PostForm("password_repeat"),
		Avatar:         c.PostForm("avatar"),
	})
	if err != nil {
		msg := "Failed to update profile"
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrConflict) {
			msg = err.Error()
		}
		Render(c, statusFor(err), "user/edit.html", gin.H{
			"Title":  "Edit Profile",
			"Error":  msg,
			"Emojis": utils.GetCommonEmojis(),
		})
		return
	}

	// The middleware loaded the pre-update user; show the fresh one.
	c.Set(middleware.CheckUserKey, updated)
	Render(c, http.StatusOK, "user/edit.html", gin.H{
		"Title":   "Edit Profile",
		"Success": "Profile updated",
		"Emojis":  utils.GetCommonEmojis(),
	})
}
