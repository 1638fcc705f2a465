package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listSnippets renders all snippets.
func (h *Handler) listSnippets(c *gin.Context) {
	snippets, err := h.services.Snippets.List(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("snippet_list_failed", "err", err)
		}
		h.renderError(c, http.StatusInternalServerError, err)
		return
	}
	h.render(c, http.StatusOK, "snippet_index.tmpl", gin.H{"Snippets": snippets})
}

// viewSnippet renders one snippet; a failed lookup bounces back to the
// listing with a danger flash.
func (h *Handler) viewSnippet(c *gin.Context) {
	snippet, err := h.services.Snippets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets")
		return
	}
	h.render(c, http.StatusOK, "snippet_view.tmpl", gin.H{"Snippet": snippet})
}

// newSnippet renders the create form.
func (h *Handler) newSnippet(c *gin.Context) {
	h.render(c, http.StatusOK, "snippet_new.tmpl", gin.H{})
}

// createSnippet stores a new snippet and returns to the form either way, with
// the outcome in a flash.
func (h *Handler) createSnippet(c *gin.Context) {
	title := c.PostForm("title")
	code := c.PostForm("code")

	if _, err := h.services.Snippets.Create(c.Request.Context(), title, code); err != nil {
		if h.log != nil {
			h.log.Infow("snippet_create_failed", "err", err)
		}
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets/new")
		return
	}
	h.flashAndRedirect(c, "success", "The snippet was created successfully.", "/snippets/new")
}

// editSnippet renders the edit form pre-filled with current values.
func (h *Handler) editSnippet(c *gin.Context) {
	snippet, err := h.services.Snippets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets")
		return
	}
	h.render(c, http.StatusOK, "snippet_edit.tmpl", gin.H{"Snippet": snippet})
}

// updateSnippet rewrites a snippet. The form body carries the target id; a
// stale view surfaces as a danger flash on the listing.
func (h *Handler) updateSnippet(c *gin.Context) {
	id := c.PostForm("id")
	title := c.PostForm("title")
	code := c.PostForm("code")

	if err := h.services.Snippets.Update(c.Request.Context(), id, title, code); err != nil {
		if h.log != nil {
			h.log.Infow("snippet_update_failed", "id", id, "err", err)
		}
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets")
		return
	}
	h.flashAndRedirect(c, "success", "The snippet was updated successfully.", "/snippets")
}

// removeSnippet renders the delete confirmation form.
func (h *Handler) removeSnippet(c *gin.Context) {
	snippet, err := h.services.Snippets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets")
		return
	}
	h.render(c, http.StatusOK, "snippet_remove.tmpl", gin.H{"Snippet": snippet})
}

// deleteSnippet removes a snippet. Deletion is idempotent, so the success
// flash is set even for an already-gone id.
func (h *Handler) deleteSnippet(c *gin.Context) {
	id := c.PostForm("id")

	if err := h.services.Snippets.Delete(c.Request.Context(), id); err != nil {
		if h.log != nil {
			h.log.Errorw("snippet_delete_failed", "id", id, "err", err)
		}
		h.flashAndRedirect(c, "danger", err.Error(), "/snippets")
		return
	}
	h.flashAndRedirect(c, "success", "The snippet was deleted successfully.", "/snippets")
}
