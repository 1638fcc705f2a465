package handlers

import (
	"net/http"

	"github.com/mjovanc/codesnippets/internal/models"

	"github.com/gin-gonic/gin"
)

// newUser renders the registration form.
func (h *Handler) newUser(c *gin.Context) {
	h.render(c, http.StatusOK, "user_new.tmpl", gin.H{})
}

// register creates a new account. Any failure comes back to the form with a
// danger flash carrying the error text.
func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := h.services.Authorization.Register(c.Request.Context(), username, email, password); err != nil {
		if h.log != nil {
			h.log.Infow("user_register_failed", "username", username, "err", err)
		}
		h.flashAndRedirect(c, "danger", err.Error(), "/users/new")
		return
	}

	h.flashAndRedirect(c, "success", "The user was registered successfully.", "/")
}

// loginForm renders the login form.
func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "user_login.tmpl", gin.H{})
}

// login verifies credentials and, on success, swaps the session for a fresh
// one (anti-fixation) carrying the authenticated username.
func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.services.Authorization.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("user_login_failed", "username", username, "err", err)
		}
		h.flashAndRedirect(c, "danger", err.Error(), "/users/login")
		return
	}

	old := h.currentSession(c)
	if old == nil {
		old = &models.Session{}
	}
	sess, token, err := h.services.Sessions.Regenerate(c.Request.Context(), *old, user.Username)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_regenerate_failed", "err", err)
		}
		h.renderError(c, http.StatusInternalServerError, err)
		return
	}
	h.setSessionCookie(c, token)
	c.Set(sessionCtxKey, &sess)

	c.Redirect(http.StatusFound, "/")
}

// logout destroys the session record and expires the cookie.
func (h *Handler) logout(c *gin.Context) {
	if sess := h.currentSession(c); sess != nil {
		if err := h.services.Sessions.Destroy(c.Request.Context(), sess.ID); err != nil && h.log != nil {
			h.log.Errorw("session_destroy_failed", "err", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}
