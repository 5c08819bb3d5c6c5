package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtflow/facility-booking-backend/internal/api"
	"github.com/courtflow/facility-booking-backend/internal/auth"
	"github.com/courtflow/facility-booking-backend/internal/booking"
	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/court"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/media"
	"github.com/courtflow/facility-booking-backend/internal/pkg/metrics"
	"github.com/courtflow/facility-booking-backend/internal/pkg/storage"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
	"github.com/courtflow/facility-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.New()

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Court Module
	courtRepo := court.NewPgxRepository(cfg.DBPool)
	courtService := court.NewService(courtRepo)

	// Coach Module
	coachRepo := coach.NewPgxRepository(cfg.DBPool)
	coachService := coach.NewService(coachRepo)

	// Equipment Module
	equipmentRepo := equipment.NewPgxRepository(cfg.DBPool)
	equipmentService := equipment.NewService(equipmentRepo)

	// Pricing Module
	pricingRepo := pricing.NewPgxRepository(cfg.DBPool)
	pricingService := pricing.NewService(pricingRepo)
	pricingEngine := pricing.NewEngine(pricingRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	availabilityChecker := booking.NewAvailabilityChecker(bookingRepo)
	bookingService := booking.NewService(bookingRepo, availabilityChecker, pricingEngine, courtService, coachService, equipmentService, m)

	// Media Module
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init local storage: %w", err)
	}
	mediaRepo := media.NewRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, store, ownerResolver(courtService, coachService, equipmentService))

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		UserService:      userService,
		CourtService:     courtService,
		CoachService:     coachService,
		EquipmentService: equipmentService,
		PricingService:   pricingService,
		PricingEngine:    pricingEngine,
		BookingService:   bookingService,
		MediaService:     mediaService,
		JWTManager:       jwtManager,
		Metrics:          m,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Metrics:    m,
	}, nil
}

// ownerResolver adapts the reference-data services into the media module's
// owner existence check.
func ownerResolver(courts court.Service, coaches coach.Service, equip equipment.Service) media.OwnerResolver {
	return func(ctx context.Context, ownerType media.OwnerType, ownerID string) (bool, error) {
		var err error
		switch ownerType {
		case media.OwnerCourt:
			_, err = courts.GetByID(ctx, ownerID)
			if errors.Is(err, court.ErrNotFound) {
				return false, nil
			}
		case media.OwnerCoach:
			_, err = coaches.GetByID(ctx, ownerID)
			if errors.Is(err, coach.ErrNotFound) {
				return false, nil
			}
		case media.OwnerEquipment:
			_, err = equip.GetByID(ctx, ownerID)
			if errors.Is(err, equipment.ErrNotFound) {
				return false, nil
			}
		default:
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
}
