package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// fail writes the error envelope. err, when present, is attached for
// diagnostics.
func fail(c *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// failAI is fail for the AI endpoints: payloadKey is always present, as
// null, so clients can read the same shape on success and failure.
func failAI(c *gin.Context, message, payloadKey string, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success":  false,
		"message":  message,
		"error":    err.Error(),
		payloadKey: nil,
	})
}

// failValidation reports every field violation at once.
func failValidation(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation error",
		"errors":  messages,
	})
}

// failRecipe maps the recipe error taxonomy onto status codes. It reports
// whether err was one of the known kinds.
func failRecipe(c *gin.Context, err error) bool {
	if verrs, ok := model.AsValidationErrors(err); ok {
		failValidation(c, verrs)
		return true
	}
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, "Recipe not found", nil)
	case errors.Is(err, service.ErrMalformedID):
		fail(c, http.StatusBadRequest, "Invalid recipe ID", nil)
	default:
		return false
	}
	return true
}
