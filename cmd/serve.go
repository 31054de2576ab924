package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/resilience"
	"github.com/cnp-robotics/scout-cli/internal/roster"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roster over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
		}))
		registerRoutes(r, env.Roster)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func registerRoutes(r chi.Router, ro *roster.Roster) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/teams", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ro.List())
	})

	r.Get("/teams/{number}", func(w http.ResponseWriter, req *http.Request) {
		rec, err := ro.Get(chi.URLParam(req, "number"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Delete("/teams/{number}", func(w http.ResponseWriter, req *http.Request) {
		if err := ro.Delete(req.Context(), chi.URLParam(req, "number")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/teams/{number}/edits", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Field  string `json:"field"`
			Value  any    `json:"value"`
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		number := chi.URLParam(req, "number")
		if err := ro.RecordEdit(req.Context(), number, body.Field, body.Value, body.Reason); err != nil {
			writeError(w, err)
			return
		}
		rec, err := ro.Get(number)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Delete("/teams/{number}/edits/{field}", func(w http.ResponseWriter, req *http.Request) {
		err := ro.ClearEdit(req.Context(), chi.URLParam(req, "number"), chi.URLParam(req, "field"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/observations", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Team   string         `json:"team"`
			Source string         `json:"source"`
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		source := model.SourceTag(body.Source)
		if source == "" {
			source = model.SourceMatch
		}
		outcome, err := ro.SubmitObservation(req.Context(), body.Team, model.Observation{
			Source: source,
			Fields: body.Fields,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{
			"applied":        len(outcome.Applied),
			"skipped_edited": len(outcome.SkippedEdited),
			"skipped_empty":  len(outcome.SkippedEmpty),
		})
	})

	r.Get("/observations", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ro.ObservationLog())
	})

	r.Get("/snapshots", func(w http.ResponseWriter, req *http.Request) {
		snaps, err := ro.Snapshots(req.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snaps)
	})

	r.Get("/target", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"target": ro.Target()})
	})

	r.Put("/target", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Number string `json:"number"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := ro.SetTarget(req.Context(), body.Number); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"target": body.Number})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case resilience.IsNotFound(err):
		status = http.StatusNotFound
	case resilience.IsValidation(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
