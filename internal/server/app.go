package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/assistant"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/config"
)

// Assistant is the question answering and safe-zone service behind the API.
type Assistant interface {
	Ask(ctx context.Context, userID, question string) (assistant.Answer, error)
	ZoneStatus(ctx context.Context, parentID, childID string) (assistant.ZoneReport, error)
}

type App struct {
	cfg       config.Config
	assistant Assistant
}

// AuthUser is the parent identified by the bearer token subject.
type AuthUser struct {
	ID    string
	Email string
}

func New(cfg config.Config, svc Assistant) *App {
	return &App{cfg: cfg, assistant: svc}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)
	api.Use(a.authMiddleware())

	api.POST("/ai/ask", a.askAssistant)
	api.GET("/children/:child_id/zone-status", a.zoneStatus)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "kidwatch-api",
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (a *App) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		parser := jwt.NewParser(jwt.WithValidMethods([]string{a.cfg.JWTAlgorithm}))
		token, err := parser.Parse(tokenString, func(*jwt.Token) (any, error) {
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid bearer token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		user, detail := a.authUserFromClaims(claims)
		if detail != "" {
			writeError(c, http.StatusUnauthorized, detail)
			return
		}
		c.Set("authUser", user)
		c.Next()
	}
}

// authUserFromClaims checks audience, issuer and subject. A non-empty detail
// is the rejection message for the client.
func (a *App) authUserFromClaims(claims jwt.MapClaims) (AuthUser, string) {
	if a.cfg.JWTAudience != "" && !claimHasAudience(claims["aud"], a.cfg.JWTAudience) {
		return AuthUser{}, "Invalid token audience"
	}
	if a.cfg.JWTIssuer != "" {
		if issuer, _ := claims["iss"].(string); issuer != a.cfg.JWTIssuer {
			return AuthUser{}, "Invalid token issuer"
		}
	}
	sub, _ := claims["sub"].(string)
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return AuthUser{}, "Token subject missing"
	}
	email, _ := claims["email"].(string)
	return AuthUser{ID: sub, Email: strings.TrimSpace(email)}, ""
}

func claimHasAudience(value any, audience string) bool {
	switch v := value.(type) {
	case string:
		return v == audience
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, item := range v {
			if item == audience {
				return true
			}
		}
	}
	return false
}

func authUserFromContext(c *gin.Context) (AuthUser, bool) {
	raw, ok := c.Get("authUser")
	if !ok {
		return AuthUser{}, false
	}
	user, ok := raw.(AuthUser)
	return user, ok
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
