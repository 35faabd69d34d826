package http

import (
	"userapp/internal/adapter/http/handler"
	"userapp/internal/core/port"
	"userapp/internal/core/service"
	"userapp/pkg/logging"
	"userapp/pkg/telemetry"
)

type Container struct {
	UserRepo port.UserRepository

	UserService port.UserService

	UserHandler   *handler.UserHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(repo port.UserRepository, logger *logging.Logger, metrics *telemetry.AppMetrics, version, environment string) *Container {
	userSvc := service.NewUserService(repo)

	return &Container{
		UserRepo:      repo,
		UserService:   userSvc,
		UserHandler:   handler.NewUserHandler(userSvc, logger, metrics),
		HealthHandler: handler.NewHealthHandler(version, environment),
	}
}
