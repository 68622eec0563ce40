package router

import (
	"menu/api"
	"menu/config"
	"menu/middleware"
	"menu/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, st store.Store) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 写接口限流（可选）
	if cfg.RateLimit.Enabled {
		r.Use(middleware.WriteRateLimit(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window))
	}

	// Swagger 文档
	// doc.json 由 swag init 生成的 docs 包提供，仓库未检入该包，生成前 UI 打开为空
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		menuHandler := api.NewMenuHandler(st)
		menus := v1.Group("/menus")
		{
			menus.POST("/", menuHandler.Create)
			menus.GET("/", menuHandler.List)
			menus.GET("/:menu_id", menuHandler.Get)
			menus.PATCH("/:menu_id", menuHandler.Update)
			menus.DELETE("/:menu_id", menuHandler.Delete)

			// 子菜单
			subMenuHandler := api.NewSubMenuHandler(st)
			submenus := menus.Group("/:menu_id/submenus")
			{
				submenus.POST("", subMenuHandler.Create)
				submenus.GET("", subMenuHandler.List)
				submenus.GET("/:submenu_id", subMenuHandler.Get)
				submenus.PATCH("/:submenu_id", subMenuHandler.Update)
				submenus.DELETE("/:submenu_id", subMenuHandler.Delete)

				// 菜品
				dishHandler := api.NewDishHandler(st)
				dishes := submenus.Group("/:submenu_id/dishes")
				{
					dishes.POST("", dishHandler.Create)
					dishes.GET("", dishHandler.List)
					dishes.GET("/:dish_id", dishHandler.Get)
					dishes.PATCH("/:dish_id", dishHandler.Update)
					dishes.DELETE("/:dish_id", dishHandler.Delete)
				}
			}
		}

		// 导出相关
		exportHandler := api.NewExportHandler(st)
		export := v1.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
