package main

import (
	"context"
	"os"
	"strconv"

	"tenantnotes/internal/domain/policy"
	"tenantnotes/internal/domain/sqlite"
	"tenantnotes/internal/domain/sqlite/repository"
	handler2 "tenantnotes/internal/http/handler"
	middleware2 "tenantnotes/internal/http/middleware"
	"tenantnotes/internal/service"
	"tenantnotes/internal/utils/uid"
	"tenantnotes/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/tenantnotes/prod/"

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	if os.Getenv("JWT_SECRET") == "" {
		panic("JWT_SECRET must be set")
	}

	uid.Init(machineID())

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Getting repos
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Getting policies
	notePolicy := policy.NewNotePolicy()
	userPolicy := policy.NewUserPolicy()
	planPolicy := policy.NewPlanPolicy()

	// Getting services
	authService := service.NewAuthService(userRepo, tenantRepo, validate, userPolicy, planPolicy)
	noteService := service.NewNoteService(noteRepo, validate, notePolicy, planPolicy)
	subService := service.NewSubscriptionService(tenantRepo, userRepo, noteRepo, validate, userPolicy)

	// Getting handlers
	authRoutes := handler2.NewAuthDefault(authService)
	noteRoutes := handler2.NewNoteDefault(noteService)
	subRoutes := handler2.NewSubscriptionDefault(subService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	// Public
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/login", authRoutes.Login)

	// Everything else requires a valid token; authorization and plan
	// limits are enforced per request against the live user row.
	authmw := middleware2.NewAuthMiddleware(&middleware2.AuthMiddlewareConfig{UserRepo: userRepo})
	ratelimit := middleware2.NewPlanRateLimit()
	api := e.Group("/api", authmw, ratelimit)

	api.POST("/auth/invite", authRoutes.Invite)
	api.GET("/auth/me", authRoutes.Me)

	// Notes
	api.GET("/notes", noteRoutes.GetNotes)
	api.POST("/notes", noteRoutes.CreateNote)
	api.DELETE("/notes/bulk", noteRoutes.BulkDelete)
	api.GET("/notes/:id", noteRoutes.GetNote)
	api.PUT("/notes/:id", noteRoutes.UpdateNote)
	api.DELETE("/notes/:id", noteRoutes.DeleteNote)

	// Subscriptions
	api.GET("/subscription", subRoutes.GetSubscription)
	api.POST("/subscription", subRoutes.UpdatePlan)
	api.GET("/subscription/usage", subRoutes.GetUsage)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":7070"); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func machineID() int64 {
	raw := os.Getenv("MACHINE_ID")
	if raw == "" {
		return 1
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("invalid MACHINE_ID %q: %v", raw, err)
	}
	return id
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
