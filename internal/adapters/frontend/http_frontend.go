package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// HTTPFrontend exposes the safety service as a JSON API
type HTTPFrontend struct {
	service       *core.SafetyService
	logger        *zap.Logger
	listenAddr    string
	maxImageBytes int64
	readTimeout   time.Duration
	handler       http.Handler
	server        *http.Server
	listener      net.Listener
}

type scanRequest struct {
	Content string `json:"content"`
}

type generateRequest struct {
	Content   string `json:"content"`
	Confirmed bool   `json:"confirmed"`
}

// imageScanResult is one code of a scanned image, labelled for a pick list
type imageScanResult struct {
	Label  string           `json:"label"`
	Report *core.ScanReport `json:"report"`
}

type imageScanResponse struct {
	Count   int               `json:"count"`
	Results []imageScanResult `json:"results"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Sensitive bool   `json:"sensitive,omitempty"`
}

// NewHTTPFrontend creates a new HTTP frontend
func NewHTTPFrontend(service *core.SafetyService, logger *zap.Logger, cfg config.ServerConfig) *HTTPFrontend {
	f := &HTTPFrontend{
		service:       service,
		logger:        logger,
		listenAddr:    cfg.ListenAddress,
		maxImageBytes: cfg.MaxImageBytes,
		readTimeout:   cfg.ReadTimeout,
	}
	f.handler = f.newRouter()

	// Browser clients on other origins
	if len(cfg.CORSOrigins) > 0 {
		f.handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(f.handler)
	}

	return f
}

func (f *HTTPFrontend) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scan", f.handleScan).Methods("POST")
	api.HandleFunc("/scan/image", f.handleScanImage).Methods("POST")
	api.HandleFunc("/generate", f.handleGenerate).Methods("POST")
	api.Use(f.logRequests)

	return r
}

// Handler returns the HTTP handler serving the API
func (f *HTTPFrontend) Handler() http.Handler {
	return f.handler
}

// Scan classifies content
func (f *HTTPFrontend) Scan(ctx context.Context, content string) *core.ScanReport {
	return f.service.Scan(ctx, content)
}

// Start binds the listen address and serves requests in the background.
// A bind failure is returned to the caller.
func (f *HTTPFrontend) Start() error {
	listener, err := net.Listen("tcp", f.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.listenAddr, err)
	}

	f.listener = listener
	f.server = &http.Server{
		Handler:     f.handler,
		ReadTimeout: f.readTimeout,
	}

	f.logger.Info("HTTP frontend starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address once started, or nil
func (f *HTTPFrontend) Addr() net.Addr {
	if f.listener == nil {
		return nil
	}
	return f.listener.Addr()
}

// Stop gracefully shuts the HTTP server down
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

func (f *HTTPFrontend) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		f.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (f *HTTPFrontend) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	writeJSON(w, http.StatusOK, f.service.Scan(r.Context(), req.Content))
}

func (f *HTTPFrontend) handleScanImage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, f.maxImageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "image too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read image"})
		return
	}

	reports, err := f.service.ScanImage(r.Context(), bytes.NewReader(body))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoCodeFound):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: core.ErrNoCodeFound.Error()})
		case errors.Is(err, core.ErrUnreadableCode):
			f.logger.Info("QR code found but unreadable", zap.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: core.ErrUnreadableCode.Error()})
		default:
			f.logger.Warn("Failed to scan image", zap.Error(err))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid image"})
		}
		return
	}

	resp := imageScanResponse{Count: len(reports), Results: make([]imageScanResult, 0, len(reports))}
	for i, report := range reports {
		resp.Results = append(resp.Results, imageScanResult{
			Label:  core.ResultLabel(i+1, report.Content),
			Report: report,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (f *HTTPFrontend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	png, err := f.service.Generate(r.Context(), req.Content, req.Confirmed)
	if err != nil {
		var rejection *core.RejectionError
		switch {
		case errors.Is(err, core.ErrEmptyInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.As(err, &rejection):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: rejection.Reason})
		case errors.Is(err, core.ErrConfirmationRequired):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Sensitive: true})
		default:
			f.logger.Error("Failed to generate QR code", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to generate QR code"})
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
