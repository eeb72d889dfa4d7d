package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/internal/handlers"
	"github.com/orbitpm/orbitpm/internal/middleware"
	"github.com/orbitpm/orbitpm/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.RequireAuth(), handlers.TaskBoardSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			// Bootstrap path: callable anonymously until the first system
			// admin exists, so the token is optional here.
			auth.POST("/system-admins", middleware.OptionalAuth(), handlers.CreateSystemAdmin)
			auth.GET("/me", middleware.RequireAuth(), handlers.Me)
		}

		tenants := api.Group("/tenants", middleware.RequireAuth())
		{
			tenants.GET("", handlers.ListTenants)
			tenants.POST("", handlers.CreateTenant)
		}

		api.GET("/users", middleware.RequireAuth(), handlers.ListAllUsers)

		tenant := api.Group("/tenant", middleware.RequireAuth())
		{
			tenant.GET("/users", handlers.ListTenantUsers)
			tenant.POST("/users", handlers.CreateTenantUser)
		}

		projects := api.Group("/projects", middleware.RequireAuth())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			projects.GET("/:project_id/members", handlers.ListMembers)
			projects.POST("/:project_id/members", handlers.AddMember)
			projects.PATCH("/:project_id/members/:user_id", handlers.UpdateMemberRole)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveMember)

			projects.GET("/:project_id/tasks", handlers.ListProjectTasks)
			projects.POST("/:project_id/tasks", handlers.CreateTask)
		}

		tasks := api.Group("/tasks", middleware.RequireAuth())
		{
			tasks.GET("/assigned", handlers.ListAssignedTasks)
			tasks.PATCH("/:task_id/status", handlers.UpdateTaskStatus)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}
	}

	return r
}
