package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsgraph/backend/internal/app"
	"newsgraph/backend/internal/reliability"
	"newsgraph/backend/internal/services"
	"newsgraph/backend/pkg/config"
	"newsgraph/backend/pkg/logger"
)

// jobService is the part of the job manager the routes use
type jobService interface {
	Start(topic string) (string, error)
	Get(id string) (services.JobInfo, bool)
	List() []services.JobInfo
	Cancel(id string) bool
}

// reliabilityRunner runs one post-processing pass
type reliabilityRunner interface {
	Run(ctx context.Context) (reliability.Summary, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	if err := cfg.ValidateCrawl(); err != nil {
		log.Fatal("Invalid crawl configuration", zap.Error(err))
	}

	ctx := context.Background()
	repo, err := app.ConnectGraph(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer repo.Close(context.Background())

	pipeline, err := app.NewPipeline(ctx, cfg, repo)
	if err != nil {
		log.Fatal("Failed to build pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	jobs := services.NewJobManager(pipeline.Runner)
	processor := reliability.NewProcessor(repo, cfg.ReliabilityBatchSize)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(log, jobs, processor)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Running crawls stop dispatching and drain their in-flight pages
	jobs.StopAll(30 * time.Second)

	log.Info("Server exited")
}

func newRouter(log *zap.Logger, jobs jobService, processor reliabilityRunner) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Start a crawl for one topic
		api.POST("/crawls", func(c *gin.Context) {
			var req struct {
				Topic string `json:"topic" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			id, err := jobs.Start(req.Topic)
			if err != nil {
				var busy services.ErrTopicBusy
				if errors.As(err, &busy) {
					c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "job_id": busy.JobID})
					return
				}
				log.Error("Failed to start crawl", zap.String("topic", req.Topic), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start crawl"})
				return
			}

			c.JSON(http.StatusAccepted, gin.H{"job_id": id})
		})

		api.GET("/crawls", func(c *gin.Context) {
			c.JSON(http.StatusOK, jobs.List())
		})

		api.GET("/crawls/:id", func(c *gin.Context) {
			info, ok := jobs.Get(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
				return
			}
			c.JSON(http.StatusOK, info)
		})

		// Cancel stops dispatch; the job finishes once in-flight pages drain
		api.DELETE("/crawls/:id", func(c *gin.Context) {
			if !jobs.Cancel(c.Param("id")) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No running job with that id"})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
		})

		api.POST("/reliability", func(c *gin.Context) {
			summary, err := processor.Run(c.Request.Context())
			if err != nil {
				log.Error("Reliability run failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Reliability run failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"deleted":  summary.Deleted,
				"scored":   summary.Scored,
				"written":  summary.Written,
				"duration": summary.Duration.String(),
			})
		})
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
