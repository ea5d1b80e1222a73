// Package web provides an HTTP server exposing computed gains as JSON.
//
// The server loads a transaction file, runs the gains engine and serves the
// result. With watching enabled it recomputes whenever the file changes and
// notifies connected clients over Server-Sent Events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/capgains/errors"
	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/loader"
	"github.com/robinvdvleuten/capgains/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	Method       ledger.Method
	WatchEnabled bool

	mu           sync.RWMutex
	config       *ledger.Config
	transactions []gains.Transaction
	result       *gains.Result
	errs         []error
	rootFile     string // Absolute path of the transaction file

	// inputFile is the file path passed to New(), used only for initial loading.
	inputFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, transactionsFile string) *Server {
	return NewWithVersion(port, transactionsFile, "", "")
}

func NewWithVersion(port int, transactionsFile, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Method:     ledger.FIFO,
		inputFile:  transactionsFile,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the transactions and serves until ctx is cancelled. The asset
// configuration is taken from ctx, see ledger.Config.WithContext.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.inputFile == "" {
		timer.End()
		return fmt.Errorf("transaction file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load %s", filepath.Base(s.inputFile)))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		timer.End()
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			timer.End()
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/gains", s.handleGetGains)
	mux.HandleFunc("GET /api/positions", s.handleGetPositions)
	mux.HandleFunc("GET /api/errors", s.handleGetErrors)
	mux.HandleFunc("GET /api/version", s.handleGetVersion)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// reload reads and recomputes the transaction file. Only I/O failures are
// returned; parse and lookup errors are kept for /api/errors.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reload(ctx context.Context) error {
	rootFile, err := filepath.Abs(s.inputFile)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	data, err := os.ReadFile(rootFile)
	if err != nil {
		return err
	}

	cfg := ledger.ConfigFromContext(ctx)

	var (
		result *gains.Result
		errs   []error
	)
	transactions, err := loader.New().LoadBytes(ctx, rootFile, data)
	if err != nil {
		errs = errors.Flatten(err)
	} else {
		result, err = gains.New(cfg).Run(ctx, transactions, s.Method)
		if err != nil {
			errs = errors.Flatten(err)
		}
	}

	s.mu.Lock()
	s.config = cfg
	s.rootFile = rootFile
	s.transactions = transactions
	s.result = result
	s.errs = errs
	s.mu.Unlock()

	return nil
}

// startWatcher watches the transaction file and recomputes when it changes.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	rootFile := s.rootFile
	s.mu.RUnlock()

	if err := watcher.Add(rootFile); err != nil {
		log.Printf("Warning: failed to watch %s: %v", rootFile, err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove/Rename are common in atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange recomputes the gains and notifies clients.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	if err := s.reload(ctx); err != nil {
		log.Printf("Failed to reload transactions: %v", err)
		return
	}

	s.mu.RLock()
	rootFile := s.rootFile
	count := len(s.errs)
	s.mu.RUnlock()

	// Re-add to catch files re-created by atomic saves
	if err := watcher.Add(rootFile); err != nil {
		log.Printf("Warning: failed to watch %s: %v", rootFile, err)
	}

	if count > 0 {
		log.Printf("Reloaded %s with %d error(s)", rootFile, count)
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
