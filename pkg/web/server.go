// Package web provides the HTTP API of the bot.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	httpServer       *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	limiters         *expirable.LRU[string, *rate.Limiter]
	limit            rate.Limit
	burst            int
	client           *http.Client
}

var server *Server

// Init initializes the global web server
func Init(webhookURL, allowedHosts string) (*Server, error) {
	s, err := NewServer(webhookURL, allowedHosts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server. allowedHosts is a regular expression
// matched against the Host header; an empty pattern accepts every host.
func NewServer(webhookURL, allowedHosts string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		webhookURL: webhookURL,
		limiters:   expirable.NewLRU[string, *rate.Limiter](4096, nil, 10*time.Minute),
		limit:      rate.Limit(100.0 / 60.0),
		burst:      100,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
	if allowedHosts != "" {
		re, err := regexp.Compile(allowedHosts)
		if err != nil {
			return nil, fmt.Errorf("invalid WEB_ALLOWED_HOSTS: %w", err)
		}
		s.allowedHostRegex = re
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())
	s.engine.Use(metricsMiddleware())

	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) hostAllowed(host string) bool {
	return s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host)
}

// logsMiddleware logs incoming requests and rejects unknown hosts
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.hostAllowed(c.Request.Host) {
			logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			go s.sendLogToWebhook(c.Copy(), false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		go s.sendLogToWebhook(c.Copy(), true)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(c *gin.Context, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", c.Request.Method)
	color := 0x00AE86

	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", c.Request.Method, c.Request.URL.Path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(c.Request.Header)
	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				c.Request.URL.Path,
				c.ClientIP(),
				string(headers),
				query,
			),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return
	}
	resp.Body.Close()
}

// limiter returns the token bucket of an IP, creating it on first use
func (s *Server) limiter(ip string) *rate.Limiter {
	if l, ok := s.limiters.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(s.limit, s.burst)
	s.limiters.Add(ip, l)
	return l
}

// rateLimitMiddleware allows each IP about 100 requests per minute
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Start serves on port until Shutdown is called
func (s *Server) Start(port string) error {
	s.prepare(port)
	return s.serve()
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	s.prepare(port)
	go func() {
		if err := s.serve(); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

func (s *Server) prepare(port string) {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
}

func (s *Server) serve() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}
