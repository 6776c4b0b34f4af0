package routes

import (
	"journal-submission-api/controllers"
	"journal-submission-api/middleware"
	"journal-submission-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Public archive + search
			public.GET("/archive", controllers.GetArchive)
			public.GET("/archive/:id", controllers.GetPublication)
			public.GET("/search", controllers.SearchPublications)

			// Signed manuscript links (token carries the authorization)
			public.GET("/files/manuscript", controllers.DownloadSignedManuscript)

			// Scheduled jobs (shared-secret auth inside the handler)
			public.POST("/cron/review-reminders", controllers.RunReviewReminders)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Submission API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile", controllers.UpdateProfile)

			// Submissions (authors)
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("/:id/manuscript", controllers.UploadManuscript)
				submissions.GET("/:id/manuscript", controllers.DownloadManuscript)
				submissions.GET("/:id/manuscript/signed-url", controllers.GetManuscriptSignedURL)
				submissions.POST("/:id/withdraw", controllers.WithdrawSubmission)
			}

			// Reviews (reviewers)
			reviews := protected.Group("/reviews")
			{
				reviews.GET("", controllers.GetMyReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.POST("/:id/submit", controllers.SubmitReview)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Editorial desk
			editor := protected.Group("/editor")
			editor.Use(middleware.RequireRole(models.RoleEditor))
			{
				editor.GET("/dashboard", controllers.GetEditorDashboard)
				editor.GET("/submissions", controllers.GetAllSubmissions)
				editor.GET("/submissions/:id/reviews", controllers.GetSubmissionReviews)
				editor.GET("/submissions/:id/decisions", controllers.GetDecisionHistory)
				editor.POST("/submissions/:id/reviewers", controllers.AssignReviewer)
				editor.POST("/submissions/:id/decision", controllers.IssueDecision)
				editor.POST("/submissions/:id/publish", controllers.PublishSubmission)
				editor.POST("/submissions/:id/reopen-review", controllers.ReopenReview)
				editor.POST("/publications/:id/retract", controllers.RetractPublication)
				editor.GET("/users", controllers.ListUsers)
				editor.POST("/users/roles", controllers.GrantRole)
				editor.GET("/settings", controllers.GetJournalSettings)
				editor.PUT("/settings", controllers.UpdateJournalSettings)
			}
		}
	}
}
