package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/735726032/openai-SenseVoice/auth"
	"github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/util"
)

// ContextKeyAPIKey is the Gin context key holding the accepted token.
const ContextKeyAPIKey = "api_key"

// APIKeyAuth rejects requests whose Authorization header does not carry the
// configured API key as a Bearer token. It runs before the handler reads the
// body, so rejected uploads never touch disk. Paths with a prefix in
// skipPaths bypass the check.
func APIKeyAuth(authn *auth.Authenticator, skipPaths []string, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("auth")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range skipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		scheme, token := splitAuthorization(c.GetHeader("Authorization"))
		accepted, err := authn.Authenticate(scheme, token)
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("Authentication failed", map[string]interface{}{
				"scheme": scheme,
				"token":  util.MaskSecret(token, 4),
				"path":   path,
			})
			abortWithError(c, err)
			return
		}

		c.Set(ContextKeyAPIKey, accepted)
		c.Next()
	}
}

// splitAuthorization splits "Bearer <token>" into its scheme and credentials.
func splitAuthorization(header string) (scheme, token string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ""
	}
	scheme, token, _ = strings.Cut(header, " ")
	return scheme, strings.TrimSpace(token)
}

func abortWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	for k, v := range appErr.Headers {
		c.Header(k, v)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
