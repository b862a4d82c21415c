// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rvail/filechat-go/internal/domain/entities"
	"github.com/rvail/filechat-go/internal/domain/ports"
	"github.com/rvail/filechat-go/internal/domain/usecases"
)

// maxUploadBytes bounds a single document upload.
const maxUploadBytes = 32 << 20

// Server hosts one chat session over a JSON API. Session calls are
// run-to-completion and never interleaved: the mutex serializes every
// controller invocation, including in-flight streams.
type Server struct {
	mu       sync.Mutex
	session  *usecases.Session
	provider ports.ChatProvider
	store    ports.DocumentStore
	addr     string
}

// NewServer creates a new HTTP server around a session controller.
func NewServer(session *usecases.Session, provider ports.ChatProvider, store ports.DocumentStore, addr string) *Server {
	return &Server{
		session:  session,
		provider: provider,
		store:    store,
		addr:     addr,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/active", s.handleActiveDocument)
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/api/model", s.handleSelectModel)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/chat/stream", s.handleChatStream)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/health", s.handleHealth)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer for streaming
	}

	log.Info("filechat server starting", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

// UploadDocument feeds a document into the session from outside the API,
// serialized with HTTP-driven calls. Used by the drop-directory watcher.
func (s *Server) UploadDocument(ctx context.Context, filename string, data []byte) (*usecases.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Upload(ctx, filename, data)
}

// handleDocuments uploads a document (POST) or lists cached records (GET).
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUpload(w, r)
	case http.MethodGet:
		s.handleListDocuments(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleUpload accepts a document as a multipart "file" field or as a raw
// body with a filename query parameter.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	result, err := s.session.Upload(r.Context(), filename, data)
	s.mu.Unlock()

	if err != nil {
		var decodeErr *entities.DecodeError
		if errors.As(err, &decodeErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]interface{}{
		"fingerprint": result.Record.Fingerprint,
		"filename":    result.Record.Filename,
		"summary":     result.Record.Summary,
		"cached_at":   result.Record.CachedAt,
		"cache_hit":   result.CacheHit,
	}
	if result.Warning != nil {
		log.Warn("cache persistence failed", "err", result.Warning)
		resp["warning"] = result.Warning.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListDocuments returns cached record metadata, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	type docInfo struct {
		Fingerprint entities.Fingerprint `json:"fingerprint"`
		Filename    string               `json:"filename"`
		Summary     string               `json:"summary"`
		CachedAt    time.Time            `json:"cached_at"`
		Bytes       int                  `json:"bytes"`
	}

	records := s.store.Records()
	docs := make([]docInfo, 0, len(records))
	for _, rec := range records {
		docs = append(docs, docInfo{
			Fingerprint: rec.Fingerprint,
			Filename:    rec.Filename,
			Summary:     rec.Summary,
			CachedAt:    rec.CachedAt,
			Bytes:       len(rec.Content),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// handleActiveDocument removes the active document (DELETE).
func (s *Server) handleActiveDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	s.session.RemoveDocument()
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleModels lists installed models. A provider failure degrades to an
// empty list: "no model available" is a state, not an error.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.provider.ListModels(r.Context())
	if err != nil {
		log.Warn("model listing failed", "err", err)
		models = nil
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": models})
}

// handleSelectModel sets or clears the session's model.
func (s *Server) handleSelectModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	warning := s.session.SelectModel(r.Context(), req.Model)
	model := s.session.Model()
	s.mu.Unlock()

	resp := map[string]interface{}{"model": model}
	if warning != nil {
		log.Warn("summary update not persisted", "err", warning)
		resp["warning"] = warning.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleChat runs one full chat turn and returns the accumulated answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt required")
		return
	}

	s.mu.Lock()
	answer, err := s.session.SubmitPrompt(r.Context(), req.Prompt, nil)
	s.mu.Unlock()

	if err != nil {
		var preErr *entities.PreconditionError
		if errors.As(err, &preErr) {
			writeError(w, http.StatusPreconditionFailed, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"answer": answer})
}

// handleChatStream runs one chat turn over SSE, one event per fragment.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	prompt := r.URL.Query().Get("q")
	if prompt == "" {
		http.Error(w, "Query required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	_, err := s.session.SubmitPrompt(r.Context(), prompt, func(fragment string) {
		sendSSE(w, flusher, map[string]interface{}{"content": fragment, "done": false})
	})
	s.mu.Unlock()

	if err != nil {
		sendSSE(w, flusher, map[string]interface{}{"error": err.Error(), "done": true})
		return
	}
	sendSSE(w, flusher, map[string]interface{}{"done": true})
}

// handleSession reports session state.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]interface{}{
		"session_id": s.session.ID(),
		"model":      s.session.Model(),
		"messages":   len(s.session.History()),
		"documents":  s.store.Len(),
	}
	if rec, ok := s.session.ActiveDocument(); ok {
		resp["document"] = rec.Filename
		resp["fingerprint"] = rec.Fingerprint
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload extracts the filename and bytes from an upload request.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("multipart upload requires a 'file' field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("reading upload: %w", err)
		}
		return header.Filename, data, nil
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		return "", nil, fmt.Errorf("filename query parameter required for raw uploads")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	return filename, data, nil
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data map[string]interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
