// Package app wires the store, the skill graph and the services into one
// running ALME instance.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/alme-learn/alme/internal/account"
	"github.com/alme-learn/alme/internal/api"
	"github.com/alme-learn/alme/internal/curriculum"
	"github.com/alme-learn/alme/internal/feed"
	"github.com/alme-learn/alme/internal/library"
	"github.com/alme-learn/alme/internal/llm"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/progress"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/recommend"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

// Options configures an App.
type Options struct {
	// DSN is the SQLite database path or DSN.
	DSN string

	JWTSecret string
	TokenTTL  time.Duration

	// LLM selects the reply provider. An empty Provider disables AI replies.
	LLM  llm.Config
	Feed feed.Config

	Log *logger.Logger
}

// App holds the wired services. Close releases the database.
type App struct {
	Store      *store.Store
	Graph      *skillgraph.Graph
	Provider   llm.Provider
	Curriculum *curriculum.Service
	Progress   *progress.Store
	Quizzes    *quiz.Service
	Dashboards *recommend.Service
	Accounts   *account.Service
	Feed       *feed.Service
	Library    *library.Service

	log *logger.Logger
}

// New opens the store, loads the skill graph and builds every service. A
// provider that fails to initialize is logged and AI replies fall back to
// canned text.
func New(ctx context.Context, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	st, err := store.Open(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	g, err := st.LoadSkillGraph(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	tokens, err := account.NewTokens(opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		st.Close()
		return nil, err
	}

	var provider llm.Provider
	if opts.LLM.Provider != "" {
		provider, err = llm.NewProvider(ctx, opts.LLM, st.EventRepo(), log)
		if err != nil {
			log.Warn("LLM provider not configured, AI replies will use fallbacks", "error", err)
			provider = nil
		}
	}

	ps := progress.NewStore(st, g)
	a := &App{
		Store:      st,
		Graph:      g,
		Provider:   provider,
		Curriculum: curriculum.NewService(g, st),
		Progress:   ps,
		Quizzes:    quiz.NewService(st, st, ps),
		Dashboards: recommend.NewService(g, ps, st, st),
		Accounts:   account.NewService(st, ps, tokens, log),
		Feed:       feed.NewService(st, provider, opts.Feed, log),
		Library:    library.NewService(st),
		log:        log,
	}
	log.Debug("App ready", "skills", len(g.Skills()), "llm", opts.LLM.Provider)
	return a, nil
}

// Server builds the HTTP API over the app's services.
func (a *App) Server(corsOrigins []string) *api.Server {
	return api.NewServer(api.Deps{
		Store:       a.Store,
		Accounts:    a.Accounts,
		Curriculum:  a.Curriculum,
		Progress:    a.Progress,
		Quizzes:     a.Quizzes,
		Dashboards:  a.Dashboards,
		Feed:        a.Feed,
		Library:     a.Library,
		Log:         a.log,
		CORSOrigins: corsOrigins,
	})
}

func (a *App) Close() error {
	return a.Store.Close()
}
