// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/models", h.PromptTemplate.ListModels)

	// 宇宙
	universes := v1.Group("/universes")
	{
		universes.POST("/generate", h.Universe.Generate)
		universes.GET("", h.Universe.List)
		universes.POST("", h.Universe.Create)
		universes.GET("/:uid", h.Universe.Get)
		universes.DELETE("/:uid", h.Universe.Delete)
		universes.POST("/:uid/regenerate", h.Universe.Regenerate)
		universes.GET("/:uid/content", h.Universe.Content)
		universes.PUT("/:uid/content", h.Universe.SaveContent)
		universes.GET("/:uid/history", h.History.List)

		// 共享
		universes.GET("/:uid/shares", h.Share.List)
		universes.POST("/:uid/shares", h.Share.Create)
		universes.PUT("/:uid/shares/:sid", h.Share.Update)
		universes.DELETE("/:uid/shares/:sid", h.Share.Delete)
	}

	// 提示词模板
	templates := v1.Group("/prompt-templates")
	{
		templates.GET("", h.PromptTemplate.List)
		templates.POST("", h.PromptTemplate.Create)
		templates.GET("/:tid", h.PromptTemplate.Get)
		templates.PUT("/:tid", h.PromptTemplate.Update)
		templates.DELETE("/:tid", h.PromptTemplate.Delete)
	}
}
