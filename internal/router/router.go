package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-projects-api/internal/handler"
	"github.com/noah-isme/campus-projects-api/internal/middleware"
	"github.com/noah-isme/campus-projects-api/internal/models"
	"github.com/noah-isme/campus-projects-api/internal/service"
	"github.com/noah-isme/campus-projects-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-projects-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-projects-api/pkg/middleware/requestid"
)

// Deps lists everything the HTTP surface needs.
type Deps struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	MaxMultipart   int64
	MaxUploadBytes int64
	EnableDocs     bool

	Metrics  *service.MetricsService
	Identity middleware.TokenVerifier

	Users        *handler.UserHandler
	Projects     *handler.ProjectHandler
	Deliverables *handler.DeliverableHandler
	Files        *handler.FileHandler
	Ops          *handler.MetricsHandler
}

// New builds the gin engine with every route registered.
func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	if d.MaxMultipart > 0 {
		r.MaxMultipartMemory = d.MaxMultipart
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(corsmiddleware.New(d.AllowedOrigins))

	r.GET("/health", d.Ops.Health)
	r.GET("/ready", d.Ops.Ready)
	r.GET("/metrics", d.Ops.Prometheus)
	if d.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	write := middleware.RequireIdentity(d.Identity)
	read := middleware.OptionalIdentity(d.Identity)
	uploads := middleware.LimitUploadBody(d.MaxUploadBytes)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		users.POST("", write, d.Users.Create)
		users.GET("", read, d.Users.List)
		users.GET("/:uid", read, d.Users.Get)
		api.PUT("/profile", write, d.Users.UpdateProfile)

		projects := api.Group("/projects")
		projects.POST("", write, middleware.RequireRoles(d.Identity, models.RoleTeacher), uploads, d.Projects.Create)
		projects.GET("", read, d.Projects.List)
		projects.GET("/export", read, d.Projects.Export)
		projects.GET("/teacher/:teacher_uid", read, d.Projects.ListByTeacher)
		projects.PUT("/:id/status", write, d.Projects.UpdateStatus)

		deliverables := api.Group("/deliverables")
		deliverables.POST("", write, d.Deliverables.Create)
		deliverables.GET("/:project_id", read, d.Deliverables.ListByProject)
		deliverables.DELETE("/:id", write, d.Deliverables.Delete)

		api.POST("/files", write, uploads, d.Files.Upload)
		api.GET("/files/:id", read, d.Files.Get)
	}
	r.GET("/files/:filename", d.Files.GetByFilename)

	return r
}
