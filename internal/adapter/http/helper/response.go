package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userapp/internal/core/domain"
	"userapp/internal/core/model/response"
)

func SendUser(c *gin.Context, statusCode int, user domain.User) {
	c.JSON(statusCode, response.UserEnvelope{
		User: response.NewUserResponse(user),
	})
}

func SendUsers(c *gin.Context, users []domain.User) {
	c.JSON(http.StatusOK, response.UsersEnvelope{
		Users: response.NewUserListResponse(users),
	})
}

func SendDeleted(c *gin.Context, message string, user domain.User) {
	c.JSON(http.StatusOK, response.DeleteEnvelope{
		Message: message,
		User:    response.NewUserResponse(user),
	})
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.ErrorEnvelope{Error: message})
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendConflictError(c *gin.Context, message string) {
	SendError(c, http.StatusConflict, message)
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
