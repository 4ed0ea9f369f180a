// Package routes wires handlers and middleware onto the fiber app.
package routes

import (
	"time"

	"hoaportal/internal/handlers"
	"hoaportal/internal/middleware"
	"hoaportal/internal/models"
	"hoaportal/internal/services/household"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// Handlers is everything SetupRoutes mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Security  *handlers.SecurityHandler
	TwoFactor *handlers.TwoFactorHandler
	Household *handlers.HouseholdHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	AllowedOrigins string
	// RateLimit is the number of requests per minute per IP allowed on the
	// login, registration and verification endpoints. Zero disables it.
	RateLimit int
}

func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

// corsConfig allows credentials only for an explicit origin list; fiber
// rejects credentials combined with a wildcard origin.
func corsConfig(origins string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: origins != "" && origins != "*",
	}
}

// records mounts owner-scoped CRUD for one household collection.
func records[T any, I household.Input[T]](r fiber.Router, h *handlers.RecordHandler[T, I]) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers, auth *middleware.AuthMiddleware, opts Options, log *zap.Logger) {
	app.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", h.Health.Check)

	api := app.Group("/api")
	api.Post("/register", rateLimit(opts.RateLimit), h.Auth.Register)
	api.Post("/login", rateLimit(opts.RateLimit), h.Auth.Login)
	api.Post("/refresh", h.Auth.Refresh)

	protected := api.Group("", auth.Handler)
	protected.Post("/logout", h.Auth.Logout)

	profile := protected.Group("/profile")
	profile.Get("/", h.Profile.Get)
	profile.Put("/basic", h.Profile.UpdateBasic())
	profile.Put("/residence", h.Profile.UpdateResidence())
	profile.Put("/emergency", h.Profile.UpdateEmergency())
	profile.Put("/privacy", h.Profile.UpdatePrivacy())
	profile.Put("/notifications", h.Profile.UpdateNotifications())
	profile.Put("/system", h.Profile.UpdateSystem())
	profile.Put("/financial", h.Profile.UpdateFinancial())
	profile.Get("/change-logs", h.Profile.ChangeLogs)
	profile.Get("/completion-status", h.Profile.CompletionStatus)
	profile.Post("/export-data", h.Profile.ExportData)

	records(protected.Group("/household-members"), h.Household.Members)
	records(protected.Group("/pets"), h.Household.Pets)
	records(protected.Group("/vehicles"), h.Household.Vehicles)

	verify := rateLimit(opts.RateLimit)
	security := protected.Group("/security")
	security.Post("/change-password", h.Security.ChangePassword)
	security.Post("/request-email-verification", verify, h.Security.RequestEmailVerification)
	security.Post("/verify-email", verify, h.Security.VerifyEmail)
	security.Post("/request-phone-verification", verify, h.Security.RequestPhoneVerification)
	security.Post("/verify-phone", verify, h.Security.VerifyPhone)

	twoFactor := protected.Group("/2fa")
	twoFactor.Post("/setup", h.TwoFactor.Setup)
	twoFactor.Post("/verify-setup", h.TwoFactor.VerifySetup)
	twoFactor.Post("/disable", h.TwoFactor.Disable)
	twoFactor.Post("/backup-codes", h.TwoFactor.BackupCodes)
	twoFactor.Post("/verify", h.TwoFactor.Verify)

	users := protected.Group("/users")
	users.Get("/:id/profile", h.Profile.UserProfile)
	users.Get("/:id/change-logs", h.Profile.UserChangeLogs)
	users.Get("/:id/household-members", h.Household.Members.UserList)
	users.Get("/:id/pets", h.Household.Pets.UserList)
	users.Get("/:id/vehicles", h.Household.Vehicles.UserList)

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Get("/users", h.Admin.ListUsers)
	admin.Put("/users/:id/role", h.Admin.SetRole)
	admin.Get("/cache-stats", h.Admin.CacheStats)
}
