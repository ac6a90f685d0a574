package routes

import (
	"net/http"
	"time"

	"autoshop-backend/config"
	"autoshop-backend/controllers"
	"autoshop-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups the controllers mounted by SetupRouter.
type Handlers struct {
	Auth       *controllers.AuthController
	Customers  *controllers.CustomerController
	Catalog    *controllers.CatalogController
	Lookups    *controllers.LookupController
	Invoices   *controllers.DocumentController
	Quotations *controllers.DocumentController
}

func SetupRouter(cfg *config.Config, h Handlers, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(log, cfg.Server.SlowRequest))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/api/login", h.Auth.Login)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.Auth.JWTSecret))
	{
		api.GET("/me", h.Auth.Me)
		api.GET("/lookups", h.Lookups.Get)

		customers := api.Group("/customers")
		{
			customers.GET("", h.Customers.List)
			customers.POST("", h.Customers.Create)
			customers.GET("/:id", h.Customers.Get)
			customers.PATCH("/:id", h.Customers.Update)
			customers.DELETE("/:id", h.Customers.Delete)
			customers.POST("/:id/vehicles", h.Customers.AddVehicle)
			customers.PATCH("/:id/vehicles/:vehicleId", h.Customers.UpdateVehicle)
			customers.DELETE("/:id/vehicles/:vehicleId", h.Customers.DeleteVehicle)
		}

		products := api.Group("/products")
		{
			products.GET("", h.Catalog.ListProducts)
			products.POST("", h.Catalog.CreateProduct)
			products.PATCH("/:id", h.Catalog.UpdateProduct)
			products.DELETE("/:id", h.Catalog.DeleteProduct)
		}

		services := api.Group("/services")
		{
			services.GET("", h.Catalog.ListServices)
			services.POST("", h.Catalog.CreateService)
			services.GET("/:id", h.Catalog.GetService)
			services.PATCH("/:id", h.Catalog.UpdateService)
			services.DELETE("/:id", h.Catalog.DeleteService)
		}

		lineItems := api.Group("/line-items")
		{
			lineItems.POST("/expand", h.Catalog.ExpandLineItems)
			lineItems.POST("/remove", h.Catalog.RemoveLineItem)
		}

		mountDocuments(api.Group("/invoices"), h.Invoices)
		mountDocuments(api.Group("/quotations"), h.Quotations)
	}

	return r
}

func mountDocuments(g *gin.RouterGroup, dc *controllers.DocumentController) {
	g.GET("", dc.List)
	g.POST("", dc.Create)
	g.GET("/:id", dc.Get)
	g.PUT("/:id", dc.Update)
	g.DELETE("/:id", dc.Delete)
	g.POST("/:id/issue", dc.Issue)
}

