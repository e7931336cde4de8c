package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"askme/internal/handlers"
	"askme/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	// Handlers
	authHandler := handlers.NewAuthHandler(db)
	questionHandler := handlers.NewQuestionHandler(db)
	voteHandler := handlers.NewVoteHandler(db)
	userHandler := handlers.NewUserHandler(db)

	// 公共路由 (Public Routes)
	r.GET("/", questionHandler.ListNew)            // 最新问题
	r.GET("/hot", questionHandler.ListHot)         // 热门问题
	r.GET("/question/:id", questionHandler.Detail) // 问题详情页
	r.GET("/tag/:name", questionHandler.ListByTag) // 标签下的问题列表

	r.GET("/signup", authHandler.ShowSignup) // 注册页面
	r.POST("/signup", authHandler.Signup)    // 提交注册
	r.GET("/login", authHandler.ShowLogin)   // 登录页面
	r.POST("/login", authHandler.Login)      // 提交登录
	r.GET("/logout", authHandler.Logout)     // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/ask", questionHandler.ShowAsk)                // 提问页面
		authorized.POST("/ask", questionHandler.Ask)                   // 提交问题
		authorized.POST("/question/:id", questionHandler.CreateAnswer) // 发表回答
		authorized.GET("/profile/edit", userHandler.ShowEdit)          // 用户设置页面
		authorized.POST("/profile/edit", userHandler.Edit)             // 提交用户设置更新
	}

	// 投票接口 (JSON endpoints, fetch 调用)
	api := r.Group("/")
	api.Use(middleware.AuthRequiredJSON())
	{
		api.POST("/question/:id/like", voteHandler.ToggleQuestionVote) // 问题点赞/点踩
		api.POST("/answer/:id/like", voteHandler.ToggleAnswerVote)     // 回答点赞/点踩
		api.POST("/answer/:id/mark_correct", voteHandler.MarkCorrect)  // 标记正确答案
	}
}
