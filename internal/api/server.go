// Package api serves the ALME REST API over gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/account"
	"github.com/alme-learn/alme/internal/curriculum"
	"github.com/alme-learn/alme/internal/feed"
	"github.com/alme-learn/alme/internal/library"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/recommend"
	"github.com/alme-learn/alme/internal/store"
)

// Deps are the services the API exposes.
type Deps struct {
	Store      *store.Store
	Accounts   *account.Service
	Curriculum *curriculum.Service
	Progress   *progress.Store
	Quizzes    *quiz.Service
	Dashboards *recommend.Service
	Feed       *feed.Service
	Library    *library.Service
	Log        *logger.Logger

	CORSOrigins []string
}

type Server struct {
	deps   Deps
	log    *logger.Logger
	engine *gin.Engine
}

func NewServer(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	s := &Server{deps: deps, log: deps.Log.With("component", "api")}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.deps.CORSOrigins))
	r.NoRoute(noRoute)

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)

		api.GET("/skills", s.listSkills)
		api.GET("/quizzes", s.listQuizzes)
		api.GET("/posts", s.listPosts)
		api.GET("/circles", s.listCircles)
		api.GET("/books", s.listBooks)
		api.GET("/books/:id", s.getBook)
		api.GET("/search", s.search)
	}

	protected := api.Group("")
	protected.Use(s.RequireAuth())
	{
		protected.GET("/me", s.me)
		protected.GET("/student/:userId/dashboard", s.dashboard)
		protected.POST("/quiz/submit", s.submitQuiz)
		protected.POST("/progress/:skillId/complete", s.completeSkill)
		protected.POST("/posts", s.createPost)
		protected.POST("/users/:id/circles/join", s.joinCircle)
	}

	admin := protected.Group("/admin")
	admin.Use(s.RequireAdmin())
	{
		admin.GET("/stats", s.adminStats)
		admin.GET("/llm/usage", s.adminLLMUsage)

		admin.GET("/users", s.adminListUsers)
		admin.PATCH("/users/:id/status", s.adminSetUserStatus)
		admin.DELETE("/users/:id", s.adminDeleteUser)

		admin.GET("/quizzes", s.listQuizzes)
		admin.POST("/quizzes", s.adminCreateQuiz)
		admin.PUT("/quizzes/:id", s.adminUpdateQuiz)
		admin.DELETE("/quizzes/:id", s.adminDeleteQuiz)

		admin.GET("/skills", s.listSkills)
		admin.POST("/skills", s.adminCreateSkill)
		admin.PUT("/skills/:id", s.adminUpdateSkill)
		admin.DELETE("/skills/:id", s.adminDeleteSkill)

		admin.GET("/books", s.listBooks)
		admin.POST("/books", s.adminCreateBook)
		admin.PUT("/books/:id", s.adminUpdateBook)
		admin.DELETE("/books/:id", s.adminDeleteBook)

		admin.GET("/posts", s.listPosts)
		admin.DELETE("/posts/:id", s.adminDeletePost)

		admin.GET("/circles", s.listCircles)
		admin.POST("/circles", s.adminCreateCircle)
		admin.PUT("/circles/:id", s.adminUpdateCircle)
		admin.DELETE("/circles/:id", s.adminDeleteCircle)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
