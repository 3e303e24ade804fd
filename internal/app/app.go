package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/config"
	"github.com/MHYAnate/rootafapi/internal/middleware"
	"github.com/MHYAnate/rootafapi/internal/modules/activity"
	"github.com/MHYAnate/rootafapi/internal/modules/adminauth"
	"github.com/MHYAnate/rootafapi/internal/modules/auth"
	"github.com/MHYAnate/rootafapi/internal/modules/catalog"
	"github.com/MHYAnate/rootafapi/internal/modules/notification"
	"github.com/MHYAnate/rootafapi/internal/modules/rating"
	"github.com/MHYAnate/rootafapi/internal/modules/upload"
	"github.com/MHYAnate/rootafapi/internal/modules/verification"
	jwtsvc "github.com/MHYAnate/rootafapi/internal/pkg/jwt"
	"github.com/MHYAnate/rootafapi/internal/repository"
)

// Build wires repositories, services and handlers onto a gin engine.
// cmd/api and the e2e suite share this so the tested router is the
// served router.
func Build(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	accessJWT := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL, jwtsvc.KindUserAccess)
	refreshJWT := jwtsvc.New(cfg.JWTRefreshSecret, cfg.RefreshTTL, jwtsvc.KindUserRefresh)
	adminJWT := jwtsvc.New(cfg.AdminJWTSecret, cfg.AdminTTL, jwtsvc.KindAdmin)

	notifService := notification.NewService(notification.NewRepository(db))
	notifHandler := notification.NewHandler(notifService)

	auditService := activity.NewService(activity.NewRepository(db))
	auditHandler := activity.NewHandler(auditService)

	authService := auth.NewService(userRepo, sessionRepo, accessJWT, refreshJWT, cfg.BcryptCost)
	authHandler := auth.NewHandler(authService)

	adminAuthService := adminauth.NewService(adminRepo, sessionRepo, auditService, adminJWT, cfg.BcryptCost)
	adminAuthHandler := adminauth.NewHandler(adminAuthService)

	verificationService := verification.NewService(userRepo, adminRepo, notifService, auditService, sessionRepo, cfg.BcryptCost)
	verificationHandler := verification.NewHandler(verificationService)

	ratingService := rating.NewService(userRepo, adminRepo, notifService, auditService)
	ratingHandler := rating.NewHandler(ratingService)

	catalogService := catalog.NewService(db)
	catalogHandler := catalog.NewHandler(catalogService)

	uploader, err := upload.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, err
	}
	uploadHandler := upload.NewHandler(uploader, db)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.Static("/static/uploads", cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		adminAuthHandler.RegisterPublicRoutes(v1)
		ratingHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)

		// any authenticated user
		protected := v1.Group("/")
		protected.Use(middleware.UserAuth(accessJWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			notifHandler.RegisterRoutes(protected)
			verificationHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterProtectedRoutes(protected)

			// verified accounts only
			verified := protected.Group("/")
			verified.Use(middleware.RequireVerified(userRepo))
			{
				ratingHandler.RegisterVerifiedRoutes(verified)
				catalogHandler.RegisterVerifiedRoutes(verified)
				uploadHandler.RegisterVerifiedRoutes(verified)
			}
		}

		// admin console
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(adminJWT, sessionRepo))
		{
			adminAuthHandler.RegisterAdminRoutes(admin)
			verificationHandler.RegisterAdminRoutes(admin)
			ratingHandler.RegisterAdminRoutes(admin)
			auditHandler.RegisterRoutes(admin)
		}
	}

	return r, nil
}
