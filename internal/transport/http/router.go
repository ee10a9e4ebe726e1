package http

import (
	"net/http"

	"github.com/campus-os/api/internal/application/attendance"
	"github.com/campus-os/api/internal/application/auth"
	"github.com/campus-os/api/internal/application/chat"
	"github.com/campus-os/api/internal/application/exam"
	"github.com/campus-os/api/internal/application/gig"
	"github.com/campus-os/api/internal/application/notice"
	"github.com/campus-os/api/internal/application/placement"
	"github.com/campus-os/api/internal/application/review"
	"github.com/campus-os/api/internal/application/task"
	"github.com/campus-os/api/internal/application/twofactor"
	"github.com/campus-os/api/internal/config"
	"github.com/campus-os/api/internal/domain"
	"github.com/campus-os/api/internal/transport/http/handler"
	appmiddleware "github.com/campus-os/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: cfg.AuthCookie,
		MaxAge:           300,
	}))

	// Every request passes through Authenticate; it never rejects, only
	// attaches a Principal when a valid auth token is presented.
	r.Use(appmiddleware.Authenticate(deps.Codec, deps.UserRepo))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:       deps.UserRepo,
		Codec:          deps.Codec,
		TOTP:           deps.TOTP,
		Mailer:         deps.Mailer,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		ResetTokenTTL:  cfg.ResetTokenTTL,
	})
	twoFactorSvc := twofactor.NewService(twofactor.ServiceDeps{
		UserRepo: deps.UserRepo,
		TOTP:     deps.TOTP,
	})
	noticeSvc := notice.NewService(notice.ServiceDeps{
		NoticeRepo: deps.NoticeRepo,
		Files:      deps.S3Store,
		Publisher:  deps.NoticePublisher,
		Summarizer: deps.Gemini,
	})
	attendanceSvc := attendance.NewService(attendance.ServiceDeps{AttendanceRepo: deps.AttendanceRepo})
	examSvc := exam.NewService(exam.ServiceDeps{ExamRepo: deps.ExamRepo})
	placementSvc := placement.NewService(placement.ServiceDeps{PlacementRepo: deps.PlacementRepo})
	gigSvc := gig.NewService(gig.ServiceDeps{GigRepo: deps.GigRepo})
	reviewSvc := review.NewService(review.ServiceDeps{ReviewRepo: deps.ReviewRepo})
	chatSvc := chat.NewService(chat.ServiceDeps{
		RoomRepo:    deps.ChatRoomRepo,
		MessageRepo: deps.ChatMessageRepo,
		Assistant:   deps.Gemini,
	})
	taskSvc := task.NewService(task.ServiceDeps{TaskRepo: deps.TaskRepo})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg.AuthCookie, int(cfg.AuthTokenTTL.Seconds()))
	twoFactorH := handler.NewTwoFactorHandler(twoFactorSvc)
	noticeH := handler.NewNoticeHandler(noticeSvc)
	attendanceH := handler.NewAttendanceHandler(attendanceSvc)
	examH := handler.NewExamHandler(examSvc)
	placementH := handler.NewPlacementHandler(placementSvc)
	gigH := handler.NewGigHandler(gigSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	chatH := handler.NewChatHandler(chatSvc)
	taskH := handler.NewTaskHandler(taskSvc)

	r.Route("/api/v1", func(r chi.Router) {
		// ── Public routes (no auth required) ─────────────────────────────────
		r.Get("/health", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/forgot-password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/reset-password", authH.ResetPassword)
		r.Post("/auth/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/auth/resend-verification", authH.ResendVerification)
		r.Post("/auth/logout", authH.Logout)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireAuth)

			r.Get("/auth/me", authH.Me)

			r.Get("/2fa/status", twoFactorH.Status)
			r.Post("/2fa/setup", twoFactorH.Setup)
			r.Post("/2fa/verify", twoFactorH.Verify)
			r.Post("/2fa/disable", twoFactorH.Disable)

			r.Get("/notices", noticeH.List)
			r.Get("/notices/{id}", noticeH.Get)

			r.Post("/attendance", attendanceH.Add)
			r.Get("/attendance", attendanceH.List)
			r.Get("/attendance/summary", attendanceH.Summary)
			r.Put("/attendance/{id}", attendanceH.Update)
			r.Delete("/attendance/{id}", attendanceH.Delete)

			r.Get("/exams", examH.List)
			r.Get("/exams/{id}", examH.Get)

			r.Get("/placements", placementH.List)
			r.Get("/placements/{id}", placementH.Get)

			r.Post("/gigs", gigH.Create)
			r.Get("/gigs", gigH.List)
			r.Get("/gigs/{id}", gigH.Get)
			r.Patch("/gigs/{id}/status", gigH.UpdateStatus)
			r.Delete("/gigs/{id}", gigH.Delete)

			r.Post("/reviews", reviewH.Create)
			r.Get("/reviews", reviewH.List)
			r.Get("/reviews/ratings", reviewH.Ratings)

			r.Get("/chat/rooms", chatH.ListRooms)
			r.Post("/chat/rooms/{id}/messages", chatH.PostMessage)
			r.Get("/chat/rooms/{id}/messages", chatH.ListMessages)

			r.Post("/tasks", taskH.Create)
			r.Get("/tasks", taskH.List)
			r.Put("/tasks/{id}", taskH.Update)
			r.Delete("/tasks/{id}", taskH.Delete)

			// ── Admin-only routes ────────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/notices", noticeH.Create)
				r.Put("/notices/{id}", noticeH.Update)
				r.Delete("/notices/{id}", noticeH.Delete)
				r.Post("/notices/{id}/file", noticeH.Upload)

				r.Post("/exams", examH.Create)
				r.Put("/exams/{id}", examH.Update)
				r.Delete("/exams/{id}", examH.Delete)

				r.Post("/placements", placementH.Create)
				r.Put("/placements/{id}", placementH.Update)
				r.Delete("/placements/{id}", placementH.Delete)

				r.Delete("/reviews/{id}", reviewH.Delete)

				r.Post("/chat/rooms", chatH.CreateRoom)
				r.Patch("/chat/rooms/{id}", chatH.UpdateRoom)
				r.Delete("/chat/rooms/{id}", chatH.DeleteRoom)
			})
		})
	})

	return r
}
