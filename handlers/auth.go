package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"newsdesk/database"
	"newsdesk/models"
)

const sessionUserKey = "user_id"

// AuthRequired redirects anonymous page requests to the login form and
// rejects anonymous API requests with 401.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

// currentUserID returns the logged-in user's id. Only valid behind
// AuthRequired.
func currentUserID(c *gin.Context) uint {
	v := sessions.Default(c).Get(sessionUserKey)
	if id, ok := v.(uint); ok {
		return id
	}
	return 0
}

func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	err := database.GetDB().Where("username = ?", username).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"error": "Invalid username or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Could not start session"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	firstName := strings.TrimSpace(c.PostForm("first_name"))
	lastName := strings.TrimSpace(c.PostForm("last_name"))

	if username == "" || len(password) < 6 {
		c.HTML(http.StatusBadRequest, "register.html",
			gin.H{"error": "Username is required and the password needs at least 6 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{"error": "Registration failed"})
		return
	}

	user := models.User{
		Username:  username,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := database.GetDB().Create(&user).Error; err != nil {
		c.HTML(http.StatusConflict, "register.html", gin.H{"error": "Username is already taken"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Could not start session"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}
