package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/akshayWork-19/RightTutor-Backend/config"
	"github.com/akshayWork-19/RightTutor-Backend/export"
	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
	"github.com/gin-gonic/gin"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

type dashboardStats struct {
	TotalInquiries     int64  `json:"totalInquiries"`
	ActiveAppointments int64  `json:"activeAppointments"`
	TeacherRequests    int64  `json:"teacherRequests"`
	ResolutionRate     string `json:"resolutionRate"`
}

func (s *Server) getDashboardStats(c *gin.Context) {
	var stats dashboardStats
	if hit, err := config.GetRedisObject(statsCacheKey, &stats); err == nil && hit {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Stats fetched successfully",
			"data":    stats,
		})
		return
	}

	ctx := c.Request.Context()
	totalInquiries, err := s.Records.Count(ctx, models.CollectionContacts)
	if err != nil {
		s.Logger.WithError(err).Error("stats query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch stats"})
		return
	}
	activeAppointments, err := s.Records.Count(ctx, models.CollectionBookings)
	if err != nil {
		s.Logger.WithError(err).Error("stats query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch stats"})
		return
	}
	teacherRequests, err := s.Records.Count(ctx, models.CollectionManualMatches)
	if err != nil {
		s.Logger.WithError(err).Error("stats query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch stats"})
		return
	}

	resolutionRate := "0%"
	if totalInquiries > 0 {
		resolved, err := s.Records.CountWhereField(ctx, models.CollectionContacts, "status", "Resolved")
		if err != nil {
			s.Logger.WithError(err).Error("stats query failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch stats"})
			return
		}
		resolutionRate = fmt.Sprintf("%d%%", int((float64(resolved)/float64(totalInquiries))*100+0.5))
	}

	stats = dashboardStats{
		TotalInquiries:     totalInquiries,
		ActiveAppointments: activeAppointments,
		TeacherRequests:    teacherRequests,
		ResolutionRate:     resolutionRate,
	}
	if err := config.SetRedisObject(statsCacheKey, stats, statsCacheTTL); err != nil {
		s.Logger.WithError(err).Warn("stats cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stats fetched successfully",
		"data":    stats,
	})
}

type analyzeInput struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) analyzeInquiry(c *gin.Context) {
	var in analyzeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "inquiry message is required"})
		return
	}
	if s.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gemini API key is not configured"})
		return
	}

	text, err := s.AI.AnalyzeInquiry(c.Request.Context(), in.Message)
	if err != nil {
		s.Logger.WithError(err).Error("inquiry analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "analysis failed"})
		return
	}
	if text == "" {
		text = "Unable to generate analysis."
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": text})
}

type chatInput struct {
	Prompt  string `json:"prompt" binding:"required"`
	Context string `json:"context"`
}

func (s *Server) aiChat(c *gin.Context) {
	var in chatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "prompt is required"})
		return
	}
	if s.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gemini API key is not configured on server"})
		return
	}

	text, err := s.AI.Chat(c.Request.Context(), in.Prompt, in.Context)
	if err != nil {
		s.Logger.WithError(err).Error("ai chat failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "chat failed"})
		return
	}
	if text == "" {
		text = "I apologize, but I could not process that request."
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": text})
}

// exportCollection streams a collection as an xlsx download, or uploads it
// to cloud storage and returns a signed URL when ?upload=true.
func (s *Server) exportCollection(c *gin.Context) {
	collection, module, ok := exportTarget(c.Param("collection"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown collection"})
		return
	}

	docs, err := s.Records.List(c.Request.Context(), collection)
	if err != nil {
		s.Logger.WithError(err).WithField("collection", collection).Error("export list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to export collection"})
		return
	}

	buf, err := export.CollectionWorkbook(module, docs)
	if err != nil {
		s.Logger.WithError(err).WithField("collection", collection).Error("workbook build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to export collection"})
		return
	}

	if c.Query("upload") == "true" {
		objectName := fmt.Sprintf("exports/%s-%s.xlsx", collection, time.Now().UTC().Format("20060102-150405"))
		url, err := utils.UploadExportToGCS(c.Request.Context(), objectName, buf.Bytes())
		if err != nil {
			s.Logger.WithError(err).Error("export upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to upload export"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"url": url}})
		return
	}

	filename := fmt.Sprintf("%s-export.xlsx", collection)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func exportTarget(param string) (collection string, module string, ok bool) {
	switch param {
	case "contact", "contacts", "inquiries":
		return models.CollectionContacts, moduleInquiries, true
	case "consultation", "consultations", "bookings":
		return models.CollectionBookings, moduleBookings, true
	case "manual-match", "manual-matches", "matches":
		return models.CollectionManualMatches, moduleMatches, true
	}
	return "", "", false
}
