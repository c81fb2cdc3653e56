package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tripwatch/alerts"
	"tripwatch/alertstream"
	"tripwatch/auth"
	"tripwatch/billing"
	"tripwatch/destinations"
	"tripwatch/middleware"
	"tripwatch/notifications"
	"tripwatch/ratelim"
	"tripwatch/settings"
	"tripwatch/userstats"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/destpic/*filepath", http.Dir("static/destpic"))
}

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", rateLimiter.Limit(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rateLimiter.Limit(auth.RefreshToken))
}

func AddDestinationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/destinations", rateLimiter.Limit(middleware.Authenticate(destinations.GetDestinations)))
	router.POST("/api/destinations", rateLimiter.Limit(middleware.Authenticate(destinations.AddDestination)))
	router.PATCH("/api/destinations/:id", rateLimiter.Limit(middleware.Authenticate(destinations.UpdateDestination)))
	router.DELETE("/api/destinations/:id", rateLimiter.Limit(middleware.Authenticate(destinations.DeleteDestination)))
	router.POST("/api/destinations/:id/activate", rateLimiter.Limit(middleware.Authenticate(destinations.ActivateDestination)))
	router.POST("/api/destinations/:id/select", rateLimiter.Limit(middleware.Authenticate(destinations.SelectDestination)))
	router.GET("/api/destinations/eligible", rateLimiter.Limit(middleware.Authenticate(destinations.GetAlertEligible)))
	router.GET("/api/destinations/upcoming", rateLimiter.Limit(middleware.Authenticate(destinations.GetUpcoming)))
	router.GET("/api/destinations/qr/:id", rateLimiter.Limit(middleware.Authenticate(destinations.ShareQR)))
	router.POST("/api/destinations/:id/banner", rateLimiter.Limit(middleware.Authenticate(destinations.UploadBanner)))
}

func AddAlertRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *alertstream.Hub) {
	router.GET("/api/alerts", rateLimiter.Limit(middleware.Authenticate(alerts.GetAlerts)))
	router.GET("/api/alerts/unread/count", rateLimiter.Limit(middleware.Authenticate(alerts.GetUnreadAlertCount)))
	router.POST("/api/alerts/refresh", rateLimiter.Limit(middleware.Authenticate(alerts.RefreshAlerts(hub))))
	router.POST("/api/alerts/read/:id", rateLimiter.Limit(middleware.Authenticate(alerts.MarkAlertRead)))
	router.GET("/api/alerts/briefing", rateLimiter.Limit(middleware.Authenticate(alerts.SafetyBriefing)))
}

func AddStreamRoutes(router *httprouter.Router, hub *alertstream.Hub) {
	router.GET("/ws/alerts/:destinationid", middleware.Authenticate(alertstream.WebSocketHandler(hub)))
}

func AddNotificationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/notifications", rateLimiter.Limit(middleware.Authenticate(notifications.GetNotifications)))
	router.GET("/api/notifications/unread/count", rateLimiter.Limit(middleware.Authenticate(notifications.GetUnreadCount)))
	router.POST("/api/notifications", rateLimiter.Limit(middleware.Authenticate(notifications.AddNotification)))
	router.POST("/api/notifications/read-all", rateLimiter.Limit(middleware.Authenticate(notifications.MarkAllNotificationsRead)))
	router.POST("/api/notifications/read/:id", rateLimiter.Limit(middleware.Authenticate(notifications.MarkNotificationRead)))
	router.DELETE("/api/notifications/:id", rateLimiter.Limit(middleware.Authenticate(notifications.DeleteNotification)))
}

func AddSettingsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/settings/init/:userid", middleware.Authenticate(settings.InitUserSettings))
	router.GET("/api/settings/all", rateLimiter.Limit(middleware.Authenticate(settings.GetUserSettings)))
	router.PUT("/api/settings/setting/:type", rateLimiter.Limit(middleware.Authenticate(settings.UpdateUserSetting)))
}

func AddBillingRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/billing/session", rateLimiter.Limit(middleware.Authenticate(billing.CreateSession)))
	router.POST("/api/billing/confirm", rateLimiter.Limit(middleware.Authenticate(billing.ConfirmSubscription)))
	router.GET("/api/billing/status", rateLimiter.Limit(middleware.Authenticate(billing.GetStatus)))
}

func AddStatsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/stats", rateLimiter.Limit(middleware.Authenticate(userstats.GetUserStats)))
}
