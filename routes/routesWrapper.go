package routes

import (
	"github.com/julienschmidt/httprouter"

	"tripwatch/alertstream"
	"tripwatch/ratelim"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *alertstream.Hub) {
	AddStaticRoutes(router)
	AddAuthRoutes(router, rateLimiter)
	AddDestinationRoutes(router, rateLimiter)
	AddAlertRoutes(router, rateLimiter, hub)
	AddStreamRoutes(router, hub)
	AddNotificationRoutes(router, rateLimiter)
	AddSettingsRoutes(router, rateLimiter)
	AddBillingRoutes(router, rateLimiter)
	AddStatsRoutes(router, rateLimiter)
}
