package handlers

import (
	"net/http"

	"github.com/mjovanc/codesnippets/internal/logger"
	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/service"

	"github.com/gin-gonic/gin"
)

const siteTitle = "Code Snippets"

// Config carries the HTTP-layer knobs read from the application config.
type Config struct {
	// CookieName is the session cookie name (don't use a framework default).
	CookieName string
	// Env toggles diagnostic detail on the error page ("development" shows it).
	Env string
	// TemplatesGlob is passed to LoadHTMLGlob; empty means the caller installs
	// templates itself (tests do this).
	TemplatesGlob string
	// StaticDir serves assets under /static when non-empty.
	StaticDir string
}

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cfg      Config
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "snippet_session"
	}
	return &Handler{services: services, log: log, cfg: cfg}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if h.cfg.TemplatesGlob != "" {
		router.LoadHTMLGlob(h.cfg.TemplatesGlob)
	}
	if h.cfg.StaticDir != "" {
		router.Static("/static", h.cfg.StaticDir)
	}

	// Every route sees the resolved session (if the cookie checks out).
	router.Use(h.sessionMiddleware)

	// Health endpoint
	router.GET("/health", h.health)

	// Landing page
	router.GET("/", h.index)

	h.registerUserRoutes(router)
	h.registerSnippetRoutes(router)

	// Live listing feed (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	users := r.Group("/users")
	{
		users.GET("/new", h.newUser)
		users.POST("/register", h.register)
		users.GET("/login", h.loginForm)
		users.POST("/auth", h.login)
		users.GET("/logout", h.logout)
	}
}

func (h *Handler) registerSnippetRoutes(r *gin.Engine) {
	snippets := r.Group("/snippets")
	{
		snippets.GET("", h.listSnippets)
		snippets.GET("/:id/view", h.viewSnippet)

		// Everything below requires a logged-in session.
		snippets.GET("/new", h.authGuard, h.newSnippet)
		snippets.POST("/create", h.authGuard, h.createSnippet)
		snippets.GET("/:id/edit", h.authGuard, h.editSnippet)
		snippets.POST("/:id/update", h.authGuard, h.updateSnippet)
		snippets.GET("/:id/remove", h.authGuard, h.removeSnippet)
		snippets.POST("/:id/delete", h.authGuard, h.deleteSnippet)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) index(c *gin.Context) {
	h.render(c, http.StatusOK, "index.tmpl", gin.H{})
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.tmpl", gin.H{})
}

// render merges the site title, the session identity and the consumed flash
// into the view data before rendering.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	data["SiteTitle"] = siteTitle

	if sess := h.currentSession(c); sess != nil {
		data["Username"] = sess.Username
		flash, err := h.services.Sessions.TakeFlash(c.Request.Context(), sess)
		if err != nil {
			if h.log != nil {
				h.log.Errorw("flash_take_failed", "err", err)
			}
		} else if flash != nil {
			data["Flash"] = flash
		}
	}

	c.HTML(status, name, data)
}

// renderError is the generic failure page. Diagnostic detail only leaves the
// server outside production.
func (h *Handler) renderError(c *gin.Context, status int, err error) {
	data := gin.H{"Status": status}
	if h.cfg.Env == "development" && err != nil {
		data["Detail"] = err.Error()
	}
	h.render(c, status, "error.tmpl", data)
}

// flashAndRedirect stores a one-shot message on the session (creating one if
// the visitor has none yet) and redirects.
func (h *Handler) flashAndRedirect(c *gin.Context, flashType, text, location string) {
	sess, err := h.ensureSession(c)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_ensure_failed", "err", err)
		}
		c.Redirect(http.StatusFound, location)
		return
	}
	if err := h.services.Sessions.SetFlash(c.Request.Context(), sess, models.Flash{Type: flashType, Text: text}); err != nil {
		if h.log != nil {
			h.log.Errorw("flash_set_failed", "err", err)
		}
	}
	c.Redirect(http.StatusFound, location)
}
