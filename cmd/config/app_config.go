package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"foodgram/entities"
	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/subscription"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"
)

func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName: "foodgram",
	})
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening access log: %w", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("DB_TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX", 20),
		Expiration: 1 * time.Second,
	}))

	// utils
	s3, err := storage.NewAwsS3(ctx)
	if err != nil {
		return nil, err
	}
	mailer := mailing.NewSMTPMailer(mailing.LoadMailConfig())
	blacklist, err := newTokenBlacklist(ctx)
	if err != nil {
		return nil, err
	}
	middlewares := middleware.NewMiddleware(blacklist)

	// Repository
	userRepository := user.NewUserRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	favoriteRepository := recipe.NewLinkRepository[entities.FavoriteRecipe](db)
	shoppingCartRepository := recipe.NewLinkRepository[entities.ShoppingCart](db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)

	// Service
	jwtService := jwt.NewJWTService(
		utils.GetConfig("JWT_SECRET"),
		time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 1440))*time.Minute,
	)
	userService := user.NewUserService(userRepository, subscriptionRepository, jwtService, blacklist)
	subscriptionService := subscription.NewSubscriptionService(subscriptionRepository, userRepository, recipeRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		favoriteRepository,
		shoppingCartRepository,
		subscriptionRepository,
		userRepository,
		s3,
		mailer,
	)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, subscriptionService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	referenceHandler := handlers.NewReferenceHandler(tagService, ingredientService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		RecipeHandler:    recipeHandler,
		ReferenceHandler: referenceHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// newTokenBlacklist uses redis when REDIS_ADDR is set. Without it logout
// still answers 200 but tokens stay valid until they expire.
func newTokenBlacklist(ctx context.Context) (jwt.TokenBlacklist, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		logging.Warn().Msg("REDIS_ADDR not set, token revocation disabled")
		return jwt.NewNoopTokenBlacklist(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       utils.GetConfigInt("REDIS_DB", 0),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return jwt.NewRedisTokenBlacklist(client), nil
}
