package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
)

// RespondWithError renders err in the OpenAI error envelope. AppErrors carry
// their own status and headers; anything else becomes a 500 server_error.
// Server errors are logged with the request id and the cause.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := logger.Fields("code", string(appErr.Code), logger.FieldStatus, appErr.HTTPStatus)
		for k, v := range appErr.Details {
			fields[k] = v
		}
		if appErr.Cause != nil {
			fields[logger.FieldError] = appErr.Cause.Error()
		}
		logger.WithComponent("server").WithContext(c.Request.Context()).Error(appErr.Message, fields)
	}
	for k, v := range appErr.Headers {
		c.Header(k, v)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondJSON sends a 200 response with data as the bare JSON body.
func RespondJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
