package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/controllers"
	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/app/models/dto"
	"github.com/emre/sinavmarket/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrls.Auth.Register)
		auth.POST("/login", ctrls.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), ctrls.Auth.Me)
	}

	// --- Storefront routes ---
	categories := v1.Group("/categories")
	{
		categories.GET("", ctrls.Category.GetAll)
		categories.POST("", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin), ctrls.Category.Create)
	}

	products := v1.Group("/products")
	{
		products.GET("", ctrls.Product.GetAll)
		products.GET("/:id", ctrls.Product.GetByID)
		products.GET("/:id/exams", ctrls.Product.GetExams)

		productsAdmin := products.Group("")
		productsAdmin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
		{
			productsAdmin.POST("", ctrls.Product.Create)
			productsAdmin.PUT("/:id", ctrls.Product.Update)
			productsAdmin.DELETE("/:id", ctrls.Product.Delete)
			productsAdmin.PUT("/:id/exams", ctrls.Product.AssignExams)
		}
	}

	orders := v1.Group("/orders")
	orders.Use(authMiddleware.JWTAuth())
	{
		orders.POST("", ctrls.Order.Create)
		orders.GET("", ctrls.Order.GetMine)
		orders.GET("/:id", ctrls.Order.GetByID)

		// Status transitions trigger entitlement grants, admin only
		orders.PUT("/:id/status", authMiddleware.RoleRequired(models.RoleAdmin), ctrls.Order.UpdateStatus)
	}

	// --- Exam core routes ---
	exams := v1.Group("/exams")
	{
		// Listing scopes itself to the caller: anonymous users get an
		// empty list, so the token is optional here.
		exams.GET("", authMiddleware.OptionalJWTAuth(), ctrls.Exam.List)
		exams.GET("/:id", authMiddleware.JWTAuth(), ctrls.Exam.Get)

		examsAdmin := exams.Group("")
		examsAdmin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
		{
			examsAdmin.POST("", ctrls.Exam.Create)
			examsAdmin.POST("/upload", ctrls.Exam.Upload)
			examsAdmin.POST("/:id/answer-key", ctrls.Exam.UploadAnswerKey)
			examsAdmin.PUT("/:id", ctrls.Exam.Update)
			examsAdmin.DELETE("/:id", ctrls.Exam.Delete)
		}
	}

	sessions := v1.Group("/exam-sessions")
	sessions.Use(authMiddleware.JWTAuth())
	{
		sessions.POST("/start", ctrls.Session.Start)
		sessions.GET("/:id", ctrls.Session.Get)
		sessions.PUT("/:id/answers", ctrls.Session.SaveAnswers)
		sessions.POST("/:id/submit", ctrls.Session.Submit)
		sessions.GET("/:id/report", ctrls.Session.Report)
	}
	v1.GET("/my-exam-sessions", authMiddleware.JWTAuth(), ctrls.Session.GetMine)

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// Swagger routes are set up in bootstrap.go already
}
