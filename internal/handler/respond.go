package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

// respondError maps a flow error onto the API's status codes and the uniform
// {success:false, message} body. Business-rule failures keep their message;
// everything else surfaces as a server error.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Message})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid password"})
	case errors.Is(err, domain.ErrNotVerified):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account not verified. Check your email."})
	case errors.Is(err, domain.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account already verified"})
	case errors.Is(err, domain.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid code"})
	case errors.Is(err, domain.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Code expired"})
	case errors.Is(err, domain.ErrInvalidSection):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid section"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
	}
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
