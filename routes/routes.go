package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tixplate/auth"
	"tixplate/contact"
	"tixplate/events"
	"tixplate/live"
	"tixplate/middleware"
	"tixplate/payments"
	"tixplate/plates"
	"tixplate/ratelim"
)

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/uploads/images/*filepath", http.Dir(uploadDir))
}

func AddUserRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/users/signup", rl.Limit(h.Signup))
	router.POST("/api/users/login", rl.Limit(h.Login))
	router.GET("/api/users/:uid", h.GetUser)
}

// AddEventRoutes wires the marketplace. Single-event reads live under
// /event/:eid because httprouter only does explicit matches and :eid
// would collide with the /user and /boughtEvents listings.
func AddEventRoutes(router *httprouter.Router, h *events.Handler, am *middleware.Auth) {
	router.GET("/api/events", h.List)
	router.GET("/api/events/event/:eid", h.Get)
	router.GET("/api/events/user/:uid", h.ListByUser)
	router.GET("/api/events/boughtEvents/user/:uid", h.ListBoughtByUser)

	router.POST("/api/events", am.Required(h.Create))
	router.PATCH("/api/events/:eid", am.Required(h.Update))
	router.DELETE("/api/events/:eid", am.Required(h.Delete))
	router.POST("/api/events/:uid", am.Required(h.Purchase))
}

func AddPlateRoutes(router *httprouter.Router, h *plates.Handler, am *middleware.Auth) {
	router.POST("/api/smartplate", h.Generate)
	router.POST("/api/smartplate/save", am.Required(h.Save))
	router.GET("/api/smartplate/user/:uid", h.ListByUser)
	router.DELETE("/api/smartplate/plate/:sid", am.Required(h.Delete))
	router.DELETE("/api/smartplate/user/:uid", am.Required(h.DeleteAll))
}

func AddContactRoutes(router *httprouter.Router, h *contact.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/secured/contact", rl.Limit(h.Submit))
}

func AddPaymentRoutes(router *httprouter.Router, h *payments.Handler) {
	router.POST("/create-payment-intent", h.CreateIntent)
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/updates", hub.Handler())
}
