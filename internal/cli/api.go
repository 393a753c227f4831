package cli

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"tracklens/internal/store"
	"tracklens/internal/track"
)

func NewAPI(logger *slog.Logger, st *store.Store) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /tracks", handleListTracks(logger, st))
	mux.Handle("GET /tracks/{id}", handleGetTrack(logger, st))

	return mux
}

type trackEntryJSON struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Format     string      `json:"format"`
	Points     int         `json:"points"`
	DistanceKm float64     `json:"distance_km"`
	DurationS  track.Value `json:"duration_s"`
	Created    time.Time   `json:"created"`
}

type trackPointJSON struct {
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lon"`
	Elevation track.Value `json:"ele"`
	Time      *time.Time  `json:"time,omitempty"`
}

type trackDetailJSON struct {
	Name       string           `json:"name"`
	Format     string           `json:"format"`
	DistanceKm float64          `json:"distance_km"`
	DurationS  track.Value      `json:"duration_s"`
	Points     []trackPointJSON `json:"points"`
	Channel    *channelJSON     `json:"channel,omitempty"`
}

type channelJSON struct {
	Kind   string        `json:"kind"`
	Unit   string        `json:"unit"`
	Window int           `json:"window,omitempty"`
	Values []track.Value `json:"values"`
}

func handleListTracks(logger *slog.Logger, st *store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries, err := st.List(r.Context())
		if err != nil {
			logger.Error("Error listing tracks", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		out := make([]trackEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, trackEntryJSON{
				ID:         e.ID,
				Name:       e.Summary.Name,
				Format:     e.Summary.Format,
				Points:     e.Summary.Points,
				DistanceKm: e.Summary.DistanceKm,
				DurationS:  e.Summary.Duration,
				Created:    e.Created,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			logger.Error("Error encoding tracks", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	})
}

func handleGetTrack(logger *slog.Logger, st *store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		t, err := st.Get(r.Context(), id)
		if err != nil {
			logger.Error("Error loading track", slog.Int64("id", id), slog.Any("error", err))
			w.WriteHeader(http.StatusNotFound)
			return
		}

		sum := t.Summary()
		detail := trackDetailJSON{
			Name:       sum.Name,
			Format:     sum.Format,
			DistanceKm: sum.DistanceKm,
			DurationS:  sum.Duration,
		}
		for _, p := range t.Points() {
			pj := trackPointJSON{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Elevation: p.Elevation,
			}
			if !p.Time.IsZero() {
				ts := p.Time
				pj.Time = &ts
			}
			detail.Points = append(detail.Points, pj)
		}

		if name := r.URL.Query().Get("channel"); name != "" {
			kind, ok := channelKind(name)
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			window := 1
			if s := r.URL.Query().Get("smooth"); s != "" {
				window, err = strconv.Atoi(s)
				if err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
			}
			ch, err := t.Smoothed(kind, window)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			detail.Channel = &channelJSON{
				Kind:   ch.Kind.String(),
				Unit:   ch.Kind.Unit(),
				Window: ch.Window,
				Values: ch.Values,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(detail); err != nil {
			logger.Error("Error encoding track", slog.Int64("id", id), slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	})
}

func (c *CLI) RunAPI(ctx context.Context) error {
	fs := flag.NewFlagSet("api", flag.ExitOnError)
	var addr string
	fs.StringVar(&addr, "addr", ":8222", "listen address")
	fs.Usage = c.Usage
	if err := fs.Parse(c.args[1:]); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	mux := NewAPI(c.logger, c.store)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		c.logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			c.logger.Error("Error shutting down server", slog.Any("error", err))
		}
	}()

	c.logger.Info("Starting server", slog.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		c.logger.Error("Error starting server", slog.Any("error", err))
		cancel()
		return err
	}

	return nil
}
