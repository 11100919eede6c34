package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/internal/auth"
	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/handler"
	"projecthub/internal/middleware"
	"projecthub/internal/notification"
	"projecthub/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("❌ failed to access underlying connection: %w", err)
	}
	if err := db.RunMigrations(sqlDB, cfg.DBName); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	orgRepo := repository.NewOrganizationRepository(gormDB)
	orgMemberRepo := repository.NewOrgMemberRepository(gormDB)
	invitationRepo := repository.NewInvitationRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	projectMemberRepo := repository.NewProjectMemberRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	timeEntryRepo := repository.NewTimeEntryRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)

	// Notification fan-out over membership projections
	notifier := notification.NewService(projectMemberRepo, notificationRepo)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiryHours)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, tokens)
	orgHandler := handler.NewOrganizationHandler(orgRepo, orgMemberRepo, userRepo)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, orgMemberRepo, cfg.InvitationTTLDays)
	projectHandler := handler.NewProjectHandler(projectRepo, projectMemberRepo, orgMemberRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, projectMemberRepo, userRepo, notifier)
	timeEntryHandler := handler.NewTimeEntryHandler(timeEntryRepo, taskRepo, projectMemberRepo)
	commentHandler := handler.NewCommentHandler(commentRepo, taskRepo, projectRepo, projectMemberRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	noteHandler := handler.NewNoteHandler(noteRepo, projectMemberRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)

		// Organization routes
		authorized.POST("/organizations", orgHandler.Create)
		authorized.GET("/organizations", orgHandler.GetMine)
		authorized.GET("/organizations/:id", orgHandler.GetByID)
		authorized.PUT("/organizations/:id", orgHandler.Update)
		authorized.DELETE("/organizations/:id", orgHandler.Delete)
		authorized.POST("/organizations/:id/members", orgHandler.AddMember)
		authorized.GET("/organizations/:id/members", orgHandler.GetMembers)
		authorized.DELETE("/organizations/:id/members/:user_id", orgHandler.RemoveMember)

		// Invitation routes
		authorized.POST("/organizations/:id/invitations", invitationHandler.Create)
		authorized.GET("/organizations/:id/invitations", invitationHandler.GetByOrganization)
		authorized.POST("/invitations/:token/accept", invitationHandler.Accept)

		// Project routes
		authorized.POST("/organizations/:id/projects", projectHandler.Create)
		authorized.GET("/organizations/:id/projects", projectHandler.GetByOrganization)
		authorized.GET("/projects", projectHandler.GetMine)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/members", projectHandler.AddMember)
		authorized.GET("/projects/:id/members", projectHandler.GetMembers)
		authorized.DELETE("/projects/:id/members/:user_id", projectHandler.RemoveMember)

		// Project board routes
		authorized.POST("/projects/:id/comments", commentHandler.CreateProjectComment)
		authorized.GET("/projects/:id/comments", commentHandler.GetProjectComments)
		authorized.POST("/project-comments/:id/pin", commentHandler.PinProjectComment)
		authorized.POST("/projects/:id/notes", noteHandler.Create)
		authorized.GET("/projects/:id/notes", noteHandler.GetByProject)
		authorized.PUT("/notes/:id", noteHandler.Update)
		authorized.DELETE("/notes/:id", noteHandler.Delete)

		// Task routes
		authorized.GET("/me/tasks", taskHandler.GetAssigned)
		authorized.POST("/projects/:id/tasks", taskHandler.Create)
		authorized.GET("/projects/:id/tasks", taskHandler.GetByProject)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/status", taskHandler.UpdateStatus)
		authorized.POST("/tasks/:id/assign", taskHandler.AssignUser)
		authorized.DELETE("/tasks/:id/assign", taskHandler.UnassignUser)

		// Time tracking routes
		authorized.POST("/tasks/:id/time-entries", timeEntryHandler.Create)
		authorized.GET("/tasks/:id/time-entries", timeEntryHandler.GetByTask)
		authorized.DELETE("/time-entries/:id", timeEntryHandler.Delete)

		// Task comment routes
		authorized.POST("/tasks/:id/comments", commentHandler.CreateTaskComment)
		authorized.GET("/tasks/:id/comments", commentHandler.GetTaskComments)
		authorized.DELETE("/task-comments/:id", commentHandler.DeleteTaskComment)
		authorized.POST("/task-comments/:id/reactions", commentHandler.AddReaction)
		authorized.GET("/task-comments/:id/reactions", commentHandler.GetReactions)
		authorized.DELETE("/task-comments/:id/reactions", commentHandler.RemoveReaction)
		authorized.POST("/task-comments/:id/attachments", commentHandler.AddTaskCommentAttachment)
		authorized.GET("/task-comments/:id/attachments", commentHandler.GetTaskCommentAttachments)
		authorized.POST("/project-comments/:id/attachments", commentHandler.AddProjectCommentAttachment)
		authorized.GET("/project-comments/:id/attachments", commentHandler.GetProjectCommentAttachments)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.GetMine)
		authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	return &Server{
		Engine: r,
		DB:     gormDB,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
