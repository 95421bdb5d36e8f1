// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/handler"
	"github.com/kmcdaid/dental-clinic-api/internal/middleware"
)

// RegisterRoutes registers routes that carry no middleware at all. The
// health check is used by load balancers and must stay cheap.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication routes. Register, login
// and refresh are open; /v1/me requires a valid access token with a known
// staff role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout with a refresh token in the body needs no JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("RECEPTIONIST", "DENTIST"))
	auth.GET("/me", a.Me)
	// Logout via bearer token revokes every session for the user.
	auth.POST("/logout", a.Logout)
}

// RegisterClinic registers the clinic record and scheduling routes. The
// passed middlewares (response cache, rate limiter) apply to the whole
// group; mutating endpoints bypass the cache because only GET is cached.
func RegisterClinic(e *echo.Echo, h *handler.ClinicHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)

	g.GET("/patients", h.ListPatients)
	g.POST("/patients", h.CreatePatient)
	g.GET("/patients/:id", h.GetPatient)
	g.PUT("/patients/:id", h.UpdatePatient)
	g.DELETE("/patients/:id", h.DeletePatient)
	g.GET("/patients/:id/appointments", h.PatientAppointments)

	g.GET("/dentists", h.ListDentists)
	g.POST("/dentists", h.CreateDentist)
	g.GET("/dentists/:id", h.GetDentist)
	g.PUT("/dentists/:id", h.UpdateDentist)
	g.DELETE("/dentists/:id", h.DeleteDentist)

	// Scheduling reads. The static next-slots segment takes priority over
	// the :id routes in echo's router.
	g.GET("/dentists/next-slots", h.NextSlots)
	g.GET("/dentists/:id/appointments", h.DentistAppointments)
	g.GET("/dentists/:id/next-slot", h.NextSlot)
	g.GET("/dentists/:id/slot-booked", h.SlotBooked)

	g.GET("/treatments", h.ListTreatments)
	g.POST("/treatments", h.CreateTreatment)
	g.GET("/treatments/:id", h.GetTreatment)
	g.PUT("/treatments/:id", h.UpdateTreatment)
	g.DELETE("/treatments/:id", h.DeleteTreatment)
	g.GET("/treatments/:id/appointments", h.TreatmentAppointments)

	g.GET("/appointments", h.ListAppointments)
	g.POST("/appointments", h.BookAppointment)
	g.GET("/appointments/:id", h.GetAppointment)
	g.PUT("/appointments/:id", h.UpdateAppointment)
	g.PATCH("/appointments/:id/attended", h.SetAttended)
	g.DELETE("/appointments/:id", h.DeleteAppointment)
}
