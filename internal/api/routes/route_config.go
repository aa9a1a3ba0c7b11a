package routes

import (
	"github.com/gofiber/fiber/v2"

	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	RecipeHandler    handlers.RecipeHandler
	ReferenceHandler handlers.ReferenceHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Reference()
	c.Recipe()
	c.GuestRoute()
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/logout", auth, c.UserHandler.Logout)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Post("/set_password", auth, c.UserHandler.SetPassword)
		user.Get("/subscriptions", auth, c.UserHandler.GetSubscriptions)

		user.Get("", optional, c.UserHandler.GetUsers)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Delete("/:id", auth, c.Middleware.AdminOnly(), c.UserHandler.DeleteUser)
		user.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Reference() {
	tags := c.App.Group("/api/v1/tags")
	tags.Get("", c.ReferenceHandler.GetTags)
	tags.Get("/:id", c.ReferenceHandler.GetTag)

	ingredients := c.App.Group("/api/v1/ingredients")
	ingredients.Get("", c.ReferenceHandler.GetIngredients)
	ingredients.Get("/:id", c.ReferenceHandler.GetIngredient)
}

func (c *Config) Recipe() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/v1/recipes",
		c.Middleware.OptionalAuthMiddleware(c.JWTService),
		c.Middleware.ReadOnlyOrAuthenticated(),
	)

	// static paths go before /:id
	recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)
	recipes.Post("/send_shopping_cart", auth, c.RecipeHandler.SendShoppingCart)

	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
	recipes.Put("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Patch("/:id", c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", c.RecipeHandler.RemoveFromShoppingCart)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
