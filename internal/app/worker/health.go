package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"plumberf/internal/app/metrics"
	"plumberf/internal/app/queue"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	WorkerID   string           `json:"worker_id"`
	Queue      string           `json:"queue"`
	Status     string           `json:"status"`
	Uptime     string           `json:"uptime"`
	StartedAt  time.Time        `json:"started_at"`
	Workers    int              `json:"workers"`
	Running    int              `json:"running"`
	Busy       int              `json:"busy"`
	QueueDepth int64            `json:"queue_depth"`
	Database   ConnectionStatus `json:"database"`
	Stats      Stats            `json:"stats"`
}

// ConnectionStatus represents a connection status
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// HealthServer exposes liveness, readiness and metrics of a worker process.
type HealthServer struct {
	workerID  string
	queueName string
	startedAt time.Time

	db        Pinger
	queue     queue.Queue
	pool      *Pool
	processor *Processor
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewHealthServer creates the health server.
func NewHealthServer(workerID, queueName string, db Pinger, q queue.Queue, pool *Pool, processor *Processor, m *metrics.Metrics, logger *zap.Logger) *HealthServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthServer{
		workerID:  workerID,
		queueName: queueName,
		startedAt: time.Now(),
		db:        db,
		queue:     q,
		pool:      pool,
		processor: processor,
		metrics:   m,
		logger:    logger,
	}
}

// Handler returns the health endpoints.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := h.Status(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	// Liveness probe
	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := h.ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	mux.Handle("/metrics", h.metrics.Handler())
	return mux
}

// Status collects the current health of the worker.
func (h *HealthServer) Status(ctx context.Context) HealthStatus {
	status := HealthStatus{
		WorkerID:  h.workerID,
		Queue:     h.queueName,
		Status:    "ok",
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		StartedAt: h.startedAt,
		Database:  ConnectionStatus{Connected: true},
	}
	if h.pool != nil {
		status.Workers = h.pool.Size()
		status.Running = h.pool.Running()
		status.Busy = h.pool.Busy()
	}
	if h.processor != nil {
		status.Stats = h.processor.Stats()
	}
	if err := h.ping(ctx); err != nil {
		status.Status = "degraded"
		status.Database = ConnectionStatus{Connected: false, Error: err.Error()}
	}
	if h.queue != nil {
		if depth, err := h.queue.Depth(ctx); err == nil {
			status.QueueDepth = depth
		} else {
			status.Status = "degraded"
		}
	}
	return status
}

func (h *HealthServer) ping(ctx context.Context) error {
	if h.db == nil {
		return errors.New("no database configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.Ping(ctx)
}

// ListenAndServe serves the health endpoints on addr until ctx is done.
func (h *HealthServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("health server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
