package router

import (
	"net/http"
	"time"

	"github.com/dariovidovic/NWP-LV7/internal/handlers"
	"github.com/dariovidovic/NWP-LV7/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// New builds the engine and wraps it with the method-override layer so HTML
// forms can drive the PUT and DELETE routes.
func New(sessionSecret, templatesGlob string) http.Handler {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 60 * 60 * 24 * 7})
	r.Use(sessions.Sessions("projects_session", store))

	r.LoadHTMLGlob(templatesGlob)

	r.GET("/health", handlers.HealthCheck)

	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	r.GET("/", middleware.RequireLogin(), handlers.Home)

	projects := r.Group("/projects", middleware.RequireLogin())
	{
		projects.GET("/myprojects", handlers.MyProjects)
		projects.GET("/member", handlers.MemberProjects)
		projects.GET("/archive", handlers.ArchiveView)
		projects.PUT("/archive/:id", handlers.ArchiveProject)

		projects.GET("/new", handlers.ShowNewProject)
		projects.POST("/new", handlers.CreateProject)

		projects.GET("/member/:id/edit", handlers.ShowMemberEdit)
		projects.PUT("/member/:id/edit", handlers.UpdateWorkLog)

		projects.GET("/:id", handlers.ShowProject)
		projects.DELETE("/:id", handlers.DeleteProject)
		projects.GET("/:id/edit", handlers.ShowEditProject)
		projects.PUT("/:id/edit", handlers.UpdateProject)
		projects.GET("/:id/add", handlers.ShowAddMember)
		projects.POST("/:id/add", handlers.AddMember)
	}

	return middleware.MethodOverride(r)
}
