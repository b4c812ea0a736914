package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionName     = "moringa_session"
	sessionOwnerKey = "cart_owner"
	sessionMaxAge   = 30 * 24 * 60 * 60
)

// newSessionStore keeps the shopper's cart owner id in a signed cookie
func newSessionStore(secret string, secure bool) sessions.Store {
	s := cookie.NewStore([]byte(secret))
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// cartOwner returns the session's cart owner, creating one on first use
func cartOwner(c *gin.Context) (string, error) {
	session := sessions.Default(c)
	if id, ok := session.Get(sessionOwnerKey).(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	session.Set(sessionOwnerKey, id)
	if err := session.Save(); err != nil {
		return "", err
	}
	return id, nil
}
