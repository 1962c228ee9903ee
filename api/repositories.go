package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type repositoryInput struct {
	Name       string `json:"name" binding:"required,min=1"`
	URL        string `json:"url" binding:"omitempty,url"`
	Category   string `json:"category"`
	AssignedTo string `json:"assignedTo"`
}

func (s *Server) addRepository(c *gin.Context) {
	var in repositoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid repository payload", "details": utils.ProcessValidationErrors(err)})
		return
	}

	repo := models.Repository{
		Name:       in.Name,
		URL:        in.URL,
		Category:   in.Category,
		AssignedTo: in.AssignedTo,
	}
	if err := s.Repos.Create(c.Request.Context(), &repo); err != nil {
		s.Logger.WithError(err).Error("repository create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save repository"})
		return
	}

	s.Notifier.Publish("repositories", "add", strconv.FormatUint(uint64(repo.ID), 10), repoMap(repo))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Repository added successfully",
		"data":    repo,
	})
}

func (s *Server) listRepositories(c *gin.Context) {
	repos, err := s.Repos.List(c.Request.Context())
	if err != nil {
		s.Logger.WithError(err).Error("repository list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch repositories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repositories fetched successfully",
		"data":    repos,
	})
}

func (s *Server) updateRepository(c *gin.Context) {
	id, err := repoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid repository id"})
		return
	}

	var in repositoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid repository payload", "details": utils.ProcessValidationErrors(err)})
		return
	}

	repo, err := s.Repos.Get(c.Request.Context(), id)
	if err != nil {
		s.Logger.WithError(err).Error("repository lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update repository"})
		return
	}
	if repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "repository not found"})
		return
	}

	repo.Name = in.Name
	repo.URL = in.URL
	repo.Category = in.Category
	repo.AssignedTo = in.AssignedTo
	if err := s.Repos.Update(c.Request.Context(), repo); err != nil {
		s.Logger.WithError(err).Error("repository update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update repository"})
		return
	}

	s.Notifier.Publish("repositories", "update", strconv.FormatUint(uint64(repo.ID), 10), repoMap(*repo))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repository updated successfully",
		"data":    repo,
	})
}

func (s *Server) deleteRepository(c *gin.Context) {
	id, err := repoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid repository id"})
		return
	}

	if err := s.Repos.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "repository not found"})
			return
		}
		s.Logger.WithError(err).Error("repository delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete repository"})
		return
	}

	s.Notifier.Publish("repositories", "delete", strconv.FormatUint(uint64(id), 10), nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repository deleted successfully",
	})
}

func repoID(c *gin.Context) (uint, error) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(raw), err
}

func repoMap(repo models.Repository) map[string]any {
	return map[string]any{
		"id":         repo.ID,
		"name":       repo.Name,
		"url":        repo.URL,
		"category":   repo.Category,
		"assignedTo": repo.AssignedTo,
		"lastSync":   repo.LastSync,
	}
}
