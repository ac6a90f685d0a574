package controllers

import (
	"context"
	"net/http"

	"autoshop-backend/services"
	"autoshop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Authenticator interface {
	Login(ctx context.Context, in services.LoginInput) (string, error)
}

type AuthController struct {
	auth Authenticator
	log  zerolog.Logger
}

func NewAuthController(auth Authenticator, log zerolog.Logger) *AuthController {
	return &AuthController{auth: auth, log: log.With().Str("component", "auth").Logger()}
}

// Login exchanges an email and password for a bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	token, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me echoes the identity carried by the token.
func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString(utils.ContextUserID),
		"email": c.GetString(utils.ContextEmail),
		"roles": c.GetStringSlice(utils.ContextRoles),
	})
}
