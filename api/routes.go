package api

import (
	"github.com/akshayWork-19/RightTutor-Backend/middlewares"
	"github.com/akshayWork-19/RightTutor-Backend/sheetsync"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full /api/v1 surface. Public form submissions
// stay open; everything else requires an admin token.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", s.adminLogin)
	auth.POST("/signup", s.adminSignup)
	auth.GET("/profile", middlewares.RequireAuth(), s.adminProfileHandler)

	for _, res := range []resource{contactResource(), consultationResource(), manualMatchResource()} {
		group := v1.Group("/" + res.route)
		group.POST("", s.submitRecord(res))
		group.GET("", middlewares.RequireAuth(), s.listRecords(res))
		group.PUT("/:id", middlewares.RequireAuth(), s.updateRecord(res))
		group.DELETE("/:id", middlewares.RequireAuth(), s.deleteRecord(res))
	}

	repo := v1.Group("/repository", middlewares.RequireAuth())
	repo.POST("", s.addRepository)
	repo.GET("", s.listRepositories)
	repo.PUT("/:id", s.updateRepository)
	repo.DELETE("/:id", s.deleteRepository)

	dashboard := v1.Group("/dashboard", middlewares.RequireAuth())
	dashboard.GET("/stats", s.getDashboardStats)
	dashboard.POST("/analyze", s.analyzeInquiry)
	dashboard.POST("/ai-chat", s.aiChat)
	dashboard.GET("/export/:collection", s.exportCollection)

	if s.Sync != nil {
		sync := v1.Group("/sync", middlewares.RequireAuth())
		sheetsync.NewHandlers(s.Sync).Register(sync)
	}
}
