/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:       Request logging
  2. Recoverer:    Panic recovery (500 instead of crash)
  3. RequestID:    Unique ID per request for tracing
  4. CORS:         Cross-origin requests for frontend
  5. Authenticate: Bearer token to identity (all routes except login)

ROUTE GROUPS:
  /api/auth/*           Login and logout
  /api/employees/*      Directory
  /api/leave/*          Balances and leave requests
  /api/attendance/*     Clock in/out, records, calendar
  /api/payroll/*        Statements, payslips, summaries

SEE ALSO:
  - handlers.go: Handler implementations
  - session.go: Authentication middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/login", h.Login)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(h.Sessions.Authenticate)

			r.Post("/auth/logout", h.Logout)

			// Directory routes
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Get("/{id}", h.GetEmployee)
			})

			// Leave routes
			r.Route("/leave", func(r chi.Router) {
				r.Get("/balances", h.GetBalances)
				r.Get("/requests", h.ListLeaveRequests)
				r.Post("/requests", h.SubmitLeave)
				r.Post("/requests/{id}/cancel", h.CancelLeave)

				r.Group(func(r chi.Router) {
					r.Use(RequireDecider)
					r.Post("/requests/{id}/approve", h.ApproveLeave)
					r.Post("/requests/{id}/reject", h.RejectLeave)
				})
			})

			// Attendance routes
			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", h.ClockIn)
				r.Post("/clock-out", h.ClockOut)
				r.Get("/records", h.ListAttendance)
				r.Get("/calendar", h.GetCalendar)
			})

			// Payroll routes
			r.Route("/payroll", func(r chi.Router) {
				r.Get("/statements", h.ListStatements)
				r.Get("/statements/{id}/payslip.pdf", h.GetPayslip)
				r.Get("/summary", h.GetPayrollSummary)
			})
		})
	})

	return r
}
