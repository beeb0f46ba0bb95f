package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/session", getSessionHandler(deps))
	router.POST("/session", loginHandler(deps))
	router.DELETE("/session", logoutHandler(deps))

	router.GET("/cart", getCartHandler(deps))
	router.POST("/cart/items", addCartItemHandler(deps))
	router.POST("/cart/items/:id/decrease", decreaseCartItemHandler(deps))
	router.DELETE("/cart/items/:id", removeCartItemHandler(deps))
	router.DELETE("/cart", clearCartHandler(deps))
	router.POST("/cart/coupon", applyCouponHandler(deps))
	router.DELETE("/cart/coupon", removeCouponHandler(deps))
	router.GET("/coupons", listCouponsHandler(deps))

	router.GET("/currencies", listCurrenciesHandler)
	router.GET("/rates", getRatesHandler(deps))
	router.POST("/rates/refresh", refreshRatesHandler(deps))
	router.GET("/preferences", getPreferencesHandler(deps))
	router.PUT("/preferences", updatePreferencesHandler(deps))

	router.GET("/addresses", listAddressesHandler(deps))
	router.POST("/addresses", saveAddressHandler(deps))
	router.DELETE("/addresses/:id", removeAddressHandler(deps))
	router.POST("/addresses/:id/select", selectAddressHandler(deps))
	router.GET("/delivery-location", getDeliveryLocationHandler(deps))
	router.PUT("/delivery-location", setDeliveryLocationHandler(deps))
	router.DELETE("/delivery-location", clearDeliveryLocationHandler(deps))
	router.GET("/geocode", geocodeHandler(deps))
	router.GET("/geocode/reverse", reverseGeocodeHandler(deps))

	router.POST("/orders", createOrderHandler(deps))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
