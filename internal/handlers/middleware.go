package handlers

import (
	"net/http"

	"github.com/mjovanc/codesnippets/internal/models"

	"github.com/gin-gonic/gin"
)

const sessionCtxKey = "session"

// sessionMiddleware resolves the signed session cookie into its server-side
// record and stores it in the Gin context. A missing or invalid cookie just
// means an anonymous request; no session is created here.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.cfg.CookieName)
	if err != nil || token == "" {
		c.Next()
		return
	}

	sess, err := h.services.Sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_resolve_failed", "err", err)
		}
		c.Next()
		return
	}
	if sess != nil {
		c.Set(sessionCtxKey, sess)
	}
	c.Next()
}

// authGuard rejects requests whose session carries no identity. The guarded
// handler never runs for anonymous visitors.
func (h *Handler) authGuard(c *gin.Context) {
	if !h.currentSession(c).LoggedIn() {
		h.renderError(c, http.StatusForbidden, nil)
		c.Abort()
		return
	}
	c.Next()
}

// currentSession returns the request's session, or nil for anonymous requests.
func (h *Handler) currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// ensureSession returns the request's session, creating one (and setting the
// cookie) when the visitor has none yet.
func (h *Handler) ensureSession(c *gin.Context) (*models.Session, error) {
	if sess := h.currentSession(c); sess != nil {
		return sess, nil
	}
	sess, token, err := h.services.Sessions.Issue(c.Request.Context())
	if err != nil {
		return nil, err
	}
	h.setSessionCookie(c, token)
	c.Set(sessionCtxKey, &sess)
	return &sess, nil
}

// setSessionCookie writes the signed token as an HttpOnly cookie with the
// session TTL as its max age.
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.cfg.CookieName, token, int(h.services.Sessions.TTL().Seconds()), "/", "", false, true)
}

// clearSessionCookie expires the cookie immediately (logout).
func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", false, true)
}
