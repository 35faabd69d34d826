package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "userapp/internal/adapter/http/helper"
	"userapp/internal/adapter/http/validation"
	"userapp/internal/core/domain"
	"userapp/internal/core/model/request"
	"userapp/internal/core/port"
	"userapp/pkg/logging"
	"userapp/pkg/telemetry"
)

// UserHandler is the only place domain outcomes become HTTP statuses.
type UserHandler struct {
	svc     port.UserService
	logger  *logging.Logger
	metrics *telemetry.AppMetrics
}

func NewUserHandler(svc port.UserService, logger *logging.Logger, metrics *telemetry.AppMetrics) *UserHandler {
	return &UserHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.svc.List(ctx)

	if err != nil {
		h.logError(c, "Failed to get users", err)
		h.record("list", "error")
		SendInternalError(c, "Failed to fetch users")
		return
	}

	h.record("list", "success")
	SendUsers(c, users)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "Invalid user ID")
		return
	}

	user, err := h.svc.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, "User not found")
			return
		}

		h.logError(c, "Failed to get user", err)
		SendInternalError(c, "Failed to fetch user")
		return
	}

	SendUser(c, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.CreateUserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "Invalid request body")
		return
	}

	if params.Name == "" || params.Email == "" {
		SendBadRequestError(c, "Name and email are required")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		SendBadRequestError(c, validation.JoinValidationErrors(err))
		return
	}

	user, err := h.svc.Create(ctx, params.Name, params.Email, params.Age)

	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			h.record("create", "conflict")
			SendConflictError(c, "Email already exists")
			return
		}

		h.logError(c, "Failed to create user", err)
		h.record("create", "error")
		SendInternalError(c, "Failed to create user")
		return
	}

	h.record("create", "success")
	SendUser(c, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "Invalid user ID")
		return
	}

	var params request.UpdateUserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "Invalid request body")
		return
	}

	if message := validatePatch(params); message != "" {
		SendBadRequestError(c, message)
		return
	}

	user, err := h.svc.Update(ctx, id, params.Patch())

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			h.record("update", "conflict")
			SendConflictError(c, "Email already exists")
		case errors.Is(err, domain.ErrUserNotFound):
			SendNotFoundError(c, "User not found")
		default:
			h.logError(c, "Failed to update user", err)
			h.record("update", "error")
			SendInternalError(c, "Failed to update user")
		}

		return
	}

	h.record("update", "success")
	SendUser(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "Invalid user ID")
		return
	}

	user, err := h.svc.Delete(ctx, id)

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			SendNotFoundError(c, "User not found")
			return
		}

		h.logError(c, "Failed to delete user", err)
		h.record("delete", "error")
		SendInternalError(c, "Failed to delete user")
		return
	}

	h.record("delete", "success")
	SendDeleted(c, "User deleted successfully", user)
}

// validatePatch checks the fields actually present in a partial update.
// Name and email may not be null; age may be null (clears it).
func validatePatch(params request.UpdateUserRequest) string {
	if params.Name.Set {
		if !params.Name.Valid {
			return "Name cannot be null"
		}

		if err := validation.Validator.Var(params.Name.Value, "min=1,max=100"); err != nil {
			return "Name must be between 1 and 100 characters"
		}
	}

	if params.Email.Set {
		if !params.Email.Valid {
			return "Email cannot be null"
		}

		if err := validation.Validator.Var(params.Email.Value, "required,email,max=255"); err != nil {
			return "Invalid email address"
		}
	}

	if params.Age.Set && params.Age.Valid {
		if err := validation.Validator.Var(params.Age.Value, "gte=0,lte=150"); err != nil {
			return "Age must be between 0 and 150"
		}
	}

	return ""
}

func (h *UserHandler) record(operation, result string) {
	if h.metrics == nil {
		return
	}

	h.metrics.RecordUserOperation(operation, result)
}

func (h *UserHandler) logError(c *gin.Context, msg string, err error) {
	if h.logger == nil {
		return
	}

	h.logger.Logger.Ctx(c.Request.Context()).Error(msg,
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
}
