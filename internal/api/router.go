package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/courtflow/facility-booking-backend/internal/auth"
	"github.com/courtflow/facility-booking-backend/internal/booking"
	bookingHttp "github.com/courtflow/facility-booking-backend/internal/booking/http"
	"github.com/courtflow/facility-booking-backend/internal/coach"
	coachHttp "github.com/courtflow/facility-booking-backend/internal/coach/http"
	"github.com/courtflow/facility-booking-backend/internal/court"
	courtHttp "github.com/courtflow/facility-booking-backend/internal/court/http"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
	equipmentHttp "github.com/courtflow/facility-booking-backend/internal/equipment/http"
	"github.com/courtflow/facility-booking-backend/internal/media"
	mediaHttp "github.com/courtflow/facility-booking-backend/internal/media/http"
	"github.com/courtflow/facility-booking-backend/internal/pkg/metrics"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
	pricingHttp "github.com/courtflow/facility-booking-backend/internal/pricing/http"
	"github.com/courtflow/facility-booking-backend/internal/user"
	userHttp "github.com/courtflow/facility-booking-backend/internal/user/http"
)

// Config carries everything the router needs to assemble the HTTP surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService      user.Service
	CourtService     court.Service
	CoachService     coach.Service
	EquipmentService equipment.Service
	PricingService   pricing.Service
	PricingEngine    *pricing.Engine
	BookingService   booking.Service
	MediaService     media.Service

	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth, Metrics)
// and registering routes for the various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.GinMiddleware())
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user has the admin role.
	adminMiddleware := auth.RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	courtHandler := courtHttp.NewHandler(cfg.CourtService)
	coachHandler := coachHttp.NewHandler(cfg.CoachService)
	equipmentHandler := equipmentHttp.NewHandler(cfg.EquipmentService)
	pricingHandler := pricingHttp.NewHandler(cfg.PricingService, cfg.PricingEngine)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		courtHttp.RegisterRoutes(v1, courtHandler, authMiddleware, adminMiddleware)
		coachHttp.RegisterRoutes(v1, coachHandler, authMiddleware, adminMiddleware)
		equipmentHttp.RegisterRoutes(v1, equipmentHandler, authMiddleware, adminMiddleware)
		pricingHttp.RegisterRoutes(v1, pricingHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware, adminMiddleware)
	}

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
