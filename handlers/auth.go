package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"papertrade/config"
	"papertrade/ledger"
	"papertrade/middleware"
	"papertrade/models"
)

const sessionMaxAge = 24 * 60 * 60

func (h *Handlers) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register creates an account. The checks run in a fixed order so the caller
// always sees the earliest applicable error: missing fields, password
// mismatch, policy, then username availability.
func (h *Handlers) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirm := c.PostForm("passwordConfirm")

	if username == "" {
		registerError(c, "Must provide a username")
		return
	}
	if password == "" {
		registerError(c, "Must provide a password")
		return
	}
	if password != confirm {
		registerError(c, "Passwords must match")
		return
	}
	if err := h.Policy.Validate(password); err != nil {
		registerError(c, "Password does not meet requirements")
		return
	}

	_, err := h.Users.UserByName(c.Request.Context(), username)
	if err == nil {
		registerError(c, "Username unavailable")
		return
	}
	if !errors.Is(err, ledger.ErrUserNotFound) {
		serverError(c)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c)
		return
	}

	user := models.User{
		Username: username,
		Hash:     string(hash),
		Cash:     config.StartingCash(),
	}
	if err := h.Users.CreateUser(c.Request.Context(), &user); err != nil {
		serverError(c)
		return
	}

	token, err := h.NewSession(c.Request.Context(), user.ID)
	if err != nil {
		serverError(c)
		return
	}
	c.SetCookie(middleware.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" {
		loginError(c, "Must provide a username")
		return
	}
	if password == "" {
		loginError(c, "Must provide a password")
		return
	}

	user, err := h.Users.UserByName(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			loginError(c, "Invalid username and/or password")
		} else {
			serverError(c)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)); err != nil {
		loginError(c, "Invalid username and/or password")
		return
	}

	token, err := h.NewSession(c.Request.Context(), user.ID)
	if err != nil {
		serverError(c)
		return
	}
	c.SetCookie(middleware.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		middleware.DestroySession(c.Request.Context(), token)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func registerError(c *gin.Context, message string) {
	c.HTML(http.StatusForbidden, "register.html", gin.H{"Error": message})
}

func loginError(c *gin.Context, message string) {
	c.HTML(http.StatusForbidden, "login.html", gin.H{"Error": message})
}
