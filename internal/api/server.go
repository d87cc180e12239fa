package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/sevennguyen07/task-management/internal/api/middleware"
	"github.com/sevennguyen07/task-management/internal/auth"
	"github.com/sevennguyen07/task-management/internal/config"
	"github.com/sevennguyen07/task-management/internal/model"
	"github.com/sevennguyen07/task-management/internal/pkg/metrics"
	"github.com/sevennguyen07/task-management/internal/store"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、Redis 客户端、认证服务以及 Gin 路由引擎。
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine
	auth   AuthService
	users  UserStore
	tasks  TaskStore
}

// AuthService 是 HTTP 层依赖的认证能力。
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context, refreshToken string) error
	IssueAuthPair(ctx context.Context, userID uint) (*auth.AuthTokens, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// UserStore 是 HTTP 层依赖的用户数据访问能力。
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// TaskStore 是 HTTP 层依赖的任务数据访问能力。
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error)
	Update(ctx context.Context, id, ownerID uint, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 连接 Redis
// 3. 初始化认证服务与 Gin 路由引擎
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Token{}, &model.Task{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	users := store.NewUsers(db)
	tokens := store.NewTokens(db)
	tasks := store.NewTasks(db)
	authSvc := auth.NewService(users, tokens,
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenTTL,
		cfg.Security.RefreshTokenTTL,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.App.CORSOrigin)))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		rdb:    rdb,
		router: r,
		auth:   authSvc,
		users:  users,
		tasks:  tasks,
	}
	s.registerRoutes()
	return s, nil
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 关闭数据库与缓存连接。
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			if closeErr := sqlDB.Close(); closeErr != nil {
				if firstErr == nil {
					firstErr = closeErr
				}
			}
		}
	}
	return firstErr
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	v1 := s.router.Group("/v1")
	v1.POST("/users", s.handleCreateUser)
	v1.POST("/users/login", s.handleLogin)

	authed := v1.Group("/")
	authed.Use(middleware.RequireAuth(s.auth))
	authed.Use(middleware.ActivityMarker(s.rdb, s.cfg.App.ActivityTTL))
	authed.POST("/users/logout", s.handleLogout)
	authed.GET("/users/me", s.handleGetMe)
	authed.PATCH("/users/me", s.handleUpdateMe)
	authed.DELETE("/users/me", s.handleDeleteMe)
	authed.POST("/users/tasks", s.handleCreateTask)
	authed.GET("/users/tasks", s.handleListTasks)
	authed.GET("/users/tasks/:id", s.handleGetTask)
	authed.PATCH("/users/tasks/:id", s.handleUpdateTask)
	authed.DELETE("/users/tasks/:id", s.handleDeleteTask)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "Not found",
		})
	})
}

// corsConfig 根据配置的来源生成 CORS 设置。
//
// 支持 "*"（放开全部）与 "http://host:*"（放开该主机的任意端口）两种通配写法。
func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	switch {
	case origin == "*":
		cfg.AllowAllOrigins = true
	case strings.HasSuffix(origin, ":*"):
		prefix := strings.TrimSuffix(origin, ":*")
		cfg.AllowOriginFunc = func(o string) bool {
			return o == prefix || strings.HasPrefix(o, prefix+":")
		}
	default:
		cfg.AllowOrigins = []string{origin}
	}
	return cfg
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
