package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-pipeline/internal/common/api"
	"go-pipeline/internal/cache"
	"go-pipeline/internal/config"
	"go-pipeline/internal/features/auth"
	"go-pipeline/internal/features/mutation"
	"go-pipeline/internal/features/report"
	"go-pipeline/internal/features/sync"
	"go-pipeline/internal/features/system"
	"go-pipeline/internal/logger"
	"go-pipeline/internal/middleware"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"
	"go-pipeline/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Core plumbing
			cache.NewStore,
			remote.NewClient,
			state.NewAppState,

			// Services
			sync.NewSyncService,
			mutation.NewMutationService,
			auth.NewAuthService,
			report.NewReportService,

			// Controllers
			sync.NewSyncController,
			mutation.NewMutationController,
			auth.NewAuthController,
			report.NewReportController,
			system.NewWebSocketController,
			system.NewDebugController,

			// API Routes
			AsRoute(sync.NewSyncApi),
			AsRoute(mutation.NewMutationApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewSystemApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			// Background refresh scheduler
			func(lc fx.Lifecycle, syncService sync.SyncService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return syncService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return syncService.StopScheduler()
					},
				})
			},

			// Close the cache cleanly on shutdown
			func(lc fx.Lifecycle, store *cache.Store) {
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						return store.Close()
					},
				})
			},
		),
	)

	app.Run()
}
