package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhub/taskhub-api/internal/application"
	"github.com/taskhub/taskhub-api/pkg/response"
)

// handleServiceError maps application errors onto the HTTP taxonomy:
// validation 422, conflict 409, bad credentials 401, missing-or-not-owned 404,
// everything else a redacted 500 (full message only in development).
func handleServiceError(c *gin.Context, logger *logrus.Logger, env string, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "account already exists", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "task not found", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
		}
		msg := "something went wrong"
		if env == "development" {
			msg = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, msg, nil)
	}
}
