package trigger

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dugoutlabs/statline/pkg/db/canonical"
	"github.com/dugoutlabs/statline/pkg/logging"
	"github.com/dugoutlabs/statline/pkg/pipeline/types"
	"github.com/dugoutlabs/statline/pkg/temporal"
	"github.com/dugoutlabs/statline/pkg/utils"
)

// App is the operational surface of the pipeline: a small HTTP API for
// manual triggers and run inspection, plus an optional local cron fallback
// for deployments that do not want the Temporal schedule to own timing.
type App struct {
	CanonicalDB    canonical.Store
	TemporalClient *temporal.Client

	// Cron fires local runs when STATS_LOCAL_CRON is set; otherwise the
	// Temporal schedule owns the timing and Cron stays nil.
	Cron     *cron.Cron
	CronSpec string

	Logger *zap.Logger
	Server *http.Server
}

// Initialize wires the trigger app.
func Initialize(ctx context.Context) (*App, error) {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}

	canonicalDB, err := canonical.New(ctx, logger)
	if err != nil {
		logger.Fatal("unable to initialize canonical store", zap.Error(err))
	}

	temporalClient, err := temporal.NewClient(ctx, logger)
	if err != nil {
		logger.Fatal("unable to establish temporal connection", zap.Error(err))
	}

	app := &App{
		CanonicalDB:    canonicalDB,
		TemporalClient: temporalClient,
		CronSpec:       utils.Env("STATS_LOCAL_CRON", ""),
		Logger:         logger,
	}

	if app.CronSpec != "" {
		if err := app.SetupScheduler(ctx, cron.DefaultLogger, app.CronSpec); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// SetupServer sets up the HTTP server.
func (a *App) SetupServer() {
	addr := utils.Env("ADDR", ":8160")

	r := mux.NewRouter()
	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })).Methods("GET")
	r.HandleFunc("/v1/runs", a.HandleTriggerRun).Methods("POST")
	r.HandleFunc("/v1/runs/latest", a.HandleLatestRun).Methods("GET")

	a.Server = &http.Server{Addr: addr, Handler: r}
}

// HandleTriggerRun starts a pipeline run. The optional JSON body carries a
// run_date override; a rerun for a date already in flight is rejected by the
// date-keyed workflow ID.
func (a *App) HandleTriggerRun(w http.ResponseWriter, r *http.Request) {
	var input types.RunInput
	if r.Body != nil {
		// An empty body means "run for yesterday".
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	if input.RunDate != "" {
		if _, err := time.Parse("2006-01-02", input.RunDate); err != nil {
			http.Error(w, "run_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	runID, err := a.TemporalClient.TriggerRun(r.Context(), input)
	if err != nil {
		a.Logger.Error("failed to trigger run", zap.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"run_id": runID})
}

// HandleLatestRun responds with the most recent run summary.
func (a *App) HandleLatestRun(w http.ResponseWriter, r *http.Request) {
	rec, err := a.CanonicalDB.LatestRun(r.Context())
	if err != nil {
		a.Logger.Error("failed to load latest run", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "no runs recorded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}

// SetupScheduler sets up the local cron fallback.
func (a *App) SetupScheduler(ctx context.Context, logger cron.Logger, cronSpec string) error {
	a.Cron = cron.New(cron.WithChain(cron.Recover(logger)))

	_, err := a.Cron.AddFunc(cronSpec, func() {
		rctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if _, err := a.TemporalClient.TriggerRun(rctx, types.RunInput{}); err != nil {
			logger.Info("[trigger] local cron run error", "error", err)
		}
	})
	return err
}

// StartCron starts the local cron scheduler, if configured.
func (a *App) StartCron() {
	if a.Cron == nil {
		return
	}
	a.Cron.Start()
	a.Logger.Info("local cron started", zap.String("cronSpec", a.CronSpec))
}

// StopCron stops the local cron scheduler.
func (a *App) StopCron() {
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
}

// Start runs the HTTP server and blocks until the context is canceled.
func (a *App) Start(ctx context.Context) {
	go func() {
		a.Logger.Info("trigger server listening", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	a.Stop()
}

// Stop shuts down the server, cron, and store connections.
func (a *App) Stop() {
	a.StopCron()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	a.TemporalClient.Close()
	_ = a.CanonicalDB.Close()
	a.Logger.Info("trigger stopped")
}
