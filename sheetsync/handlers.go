package sheetsync

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the sync worker over the API: a status view for the
// dashboard and a manual trigger.
type Handlers struct {
	Worker *Worker
}

func NewHandlers(worker *Worker) *Handlers {
	return &Handlers{Worker: worker}
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/status", h.Status)
	r.POST("/trigger", h.Trigger)
}

// Status reports every mirror target and when it was last visited.
func (h *Handlers) Status(c *gin.Context) {
	repos, err := h.Worker.Repos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load repositories"})
		return
	}

	targets := make([]gin.H, 0, len(repos))
	for _, repo := range repos {
		targets = append(targets, gin.H{
			"id":         repo.ID,
			"name":       repo.Name,
			"category":   repo.Category,
			"url":        repo.URL,
			"collection": CollectionForRepository(repo),
			"lastSync":   repo.LastSync,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": targets})
}

// Trigger runs one full sync pass before responding. Targets locked by a
// pass already in flight are skipped, so triggering is always safe.
func (h *Handlers) Trigger(c *gin.Context) {
	h.Worker.SyncAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "sync completed"})
}
