package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"menu/config"
	"menu/database"
	"menu/router"
	"menu/store"

	"github.com/joho/godotenv"
)

// @title 菜单系统 API
// @version 1.0
// @description 三级菜单层次（菜单/子菜单/菜品）管理 API，带派生数量统计和导出功能
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("菜单系统 v1.0.0")
		return
	}

	// 加载 .env（可选，用于环境变量覆盖）
	_ = godotenv.Load()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 按配置选择数据访问实现
	var st store.Store
	switch cfg.Database.Driver {
	case "postgres":
		st, err = store.NewPgxStore(context.Background(), cfg)
		if err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
	default:
		if err := database.Init(cfg); err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
		st = store.NewGormStore(database.DB)
	}
	defer st.Close()

	// 设置路由
	r := router.SetupRouter(cfg, st)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  🍽 菜单系统已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/menus/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
