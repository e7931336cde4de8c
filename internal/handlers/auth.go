package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"askme/internal/middleware"
	"askme/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{users: services.NewUserService(db)}
}

// continueURL reads the post-login destination, refusing anything that
// is not a local path.
func continueURL(c *gin.Context) string {
	target := c.Query("continue")
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/profile/edit"
	}
	return target
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/profile/edit")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title":    "Log In",
		"Continue": c.Query("continue"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/profile/edit")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		Render(c, http.StatusUnprocessableEntity, "auth/login.html", gin.H{
			"Title":    "Log In",
			"Error":    "User not found",
			"Username": username,
			"Continue": c.Query("continue"),
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to start session")
		return
	}

	c.Redirect(http.StatusFound, continueURL(c))
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/profile/edit")
		return
	}
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign Up"})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/profile/edit")
		return
	}

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	repeat := c.PostForm("password_repeat")

	user, err := h.users.Register(username, email, password, repeat)
	if err != nil {
		Render(c, statusFor(err), "auth/signup.html", gin.H{
			"Title":    "Sign Up",
			"Error":    err.Error(),
			"Username": username,
			"Email":    email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to start session")
		return
	}

	c.Redirect(http.StatusFound, "/profile/edit")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
