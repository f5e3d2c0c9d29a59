package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles the API surface for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Admins        *AdminHandler
	Careers       *CareerHandler
	Subjects      *SubjectHandler
	Schedule      *ScheduleHandler
	Prerequisites *PrerequisiteHandler
	Curriculum    *CurriculumHandler
	Chat          *ChatHandler
}

// Register wires the catalog routes onto the group. The authn chain is
// applied to everything except login, refresh and the reset flow.
func Register(api *gin.RouterGroup, h Handlers, authn ...gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	protected := api.Group("")
	protected.Use(authn...)
	{
		protected.POST("/auth/logout", h.Auth.Logout)
		protected.PUT("/auth/password", h.Auth.ChangePassword)

		admins := protected.Group("/admins")
		{
			admins.GET("", h.Admins.List)
			admins.POST("", h.Admins.Create)
			admins.GET("/:id", h.Admins.Get)
			admins.PUT("/:id", h.Admins.Update)
			admins.PUT("/:id/state", h.Admins.UpdateState)
			admins.DELETE("/:id", h.Admins.Delete)
		}

		careers := protected.Group("/careers")
		{
			careers.GET("", h.Careers.List)
			careers.POST("", h.Careers.Create)
			careers.GET("/:id", h.Careers.Get)
			careers.PUT("/:id", h.Careers.Update)
			careers.PUT("/:id/coordinator", h.Careers.AssignCoordinator)
			careers.PUT("/:id/state", h.Careers.UpdateState)
			careers.DELETE("/:id", h.Careers.Delete)
			careers.GET("/:id/curriculum", h.Curriculum.Download)
		}

		subjects := protected.Group("/subjects")
		{
			subjects.GET("", h.Subjects.List)
			subjects.POST("", h.Subjects.Create)
			subjects.GET("/featured", h.Subjects.Featured)
			subjects.GET("/:id", h.Subjects.Get)
			subjects.PUT("/:id", h.Subjects.Update)
			subjects.DELETE("/:id", h.Subjects.Delete)
			subjects.GET("/:id/schedule", h.Schedule.ListBySubject)
			subjects.GET("/:id/prerequisites", h.Prerequisites.ListForSubject)
			subjects.GET("/:id/dependents", h.Prerequisites.ListDependents)
		}

		slots := protected.Group("/schedule-slots")
		{
			slots.POST("", h.Schedule.Create)
			slots.GET("/:id", h.Schedule.Get)
			slots.PUT("/:id", h.Schedule.Update)
			slots.DELETE("/:id", h.Schedule.Delete)
		}

		prereqs := protected.Group("/prerequisites")
		{
			prereqs.POST("", h.Prerequisites.Create)
			prereqs.DELETE("/:id", h.Prerequisites.Delete)
		}

		protected.POST("/chat/query", h.Chat.Query)
	}
}
