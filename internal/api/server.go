package api

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tutorchat/internal/chat"
	"tutorchat/internal/config"
	"tutorchat/internal/directory"
	"tutorchat/internal/lesson"
	"tutorchat/internal/logger"
	"tutorchat/internal/util"
)

const maxUploadBytes = 64 << 20

// SourceRecorder persists the uploaded PDF location for a lesson.
type SourceRecorder interface {
	UpsertStoredPath(ctx context.Context, lessonID, path, sha256 string) error
}

type Deps struct {
	Lessons   lesson.Loader
	Chat      *chat.Service
	Directory *directory.Resolver
	Sources   SourceRecorder
	Log       *logger.Logger
}

type Server struct {
	cfg       config.Config
	lessons   lesson.Loader
	chat      *chat.Service
	directory *directory.Resolver
	sources   SourceRecorder
	log       *logger.Logger
}

func NewServer(cfg config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		cfg:       cfg,
		lessons:   deps.Lessons,
		chat:      deps.Chat,
		directory: deps.Directory,
		sources:   deps.Sources,
		log:       log.With("component", "api"),
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/lessons/", s.handleLessonsScoped)
	mux.HandleFunc("/users/query", s.handleUserQuery)
	return s.withRequestLog(withCORS(s.cfg.CORSOrigin, mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLessonsScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/lessons/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	lessonID := parts[0]
	switch parts[1] {
	case "content":
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleContent(w, r, lessonID)
	case "chat":
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleChat(w, r, lessonID)
	case "upload":
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleUpload(w, r, lessonID)
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request, lessonID string) {
	if s.lessons == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("lesson loader not configured"))
		return
	}
	doc, err := s.lessons.Load(r.Context(), lessonID)
	if err != nil {
		s.log.Error("lesson load failed", "lesson_id", lessonID, "error", err)
		writeErr(w, http.StatusBadGateway, fmt.Errorf("lesson load failed: %w", err))
		return
	}
	doc.RawText = ""
	writeJSON(w, http.StatusOK, doc)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, lessonID string) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("message is required"))
		return
	}
	if s.chat == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("chat not configured"))
		return
	}
	resp := s.chat.Respond(r.Context(), chat.Request{LessonID: lessonID, ConversationID: req.ConversationID, Message: req.Message})
	writeJSON(w, http.StatusOK, resp)
}

type userQueryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleUserQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req userQueryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}
	if s.directory == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("directory not configured"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sender": chat.Sender, "text": s.directory.Resolve(r.Context(), req.Query)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, lessonID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}

	fh, ok := uploadedFile(r.MultipartForm.File)
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("only pdf files are accepted"))
		return
	}
	if err := util.EnsureDir(s.cfg.DownloadsRoot); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	sum, savedPath, err := saveUploadedFile(s.cfg.DownloadsRoot, uploadName(lessonID, fh.Filename), fh)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	stored := filepath.Base(savedPath)
	if s.sources != nil {
		if err := s.sources.UpsertStoredPath(r.Context(), lessonID, stored, sum); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}
	if f, ok := s.lessons.(interface{ Forget(string) }); ok {
		f.Forget(lessonID)
	}
	s.log.Info("lesson pdf uploaded", "lesson_id", lessonID, "path", stored, "sha256", sum)
	writeJSON(w, http.StatusOK, map[string]any{"lesson_id": lessonID, "filename": stored, "sha256": sum})
}

// uploadName prefixes the client filename with the lesson id so the filename
// strategy of the resolver can find it.
func uploadName(lessonID, clientName string) string {
	base := filepath.Base(strings.ReplaceAll(clientName, `\`, "/"))
	return "lesson_" + lessonID + "_" + base
}

func saveUploadedFile(dstDir, name string, fh *multipart.FileHeader) (sum, path string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dstDir, "upload-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	h := sha256.New()
	if _, err = io.Copy(io.MultiWriter(tmp, h), src); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", "", err
	}
	finalPath := util.SafeJoin(dstDir, name)
	if err = os.Rename(tmp.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("atomic move upload: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), finalPath, nil
}

func uploadedFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	if v := m["file"]; len(v) > 0 {
		return v[0], true
	}
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "TC-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status == http.StatusServiceUnavailable:
		return apiError{Code: "TC-API-5030", Message: "Service is not fully configured. Check server settings."}
	case status == http.StatusBadGateway:
		return apiError{Code: "TC-API-5020", Message: "Lesson worker unavailable. Retry shortly."}
	case status >= 500:
		switch {
		case errors.Is(err, util.ErrStoreUnavailable),
			strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "TC-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "TC-DB-5001",
				Message: "Database schema is not initialized. Start the worker or api once with a reachable database.",
			}
		default:
			return apiError{
				Code:    "TC-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "TC-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "TC-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusMethodNotAllowed:
		code = "TC-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 {
		switch {
		case strings.Contains(raw, "message is required"):
			msg = "A chat message is required."
		case strings.Contains(raw, "query is required"):
			msg = "A username or email query is required."
		case strings.Contains(raw, "no files provided"):
			msg = "No PDF file was provided."
		case strings.Contains(raw, "only pdf"):
			msg = "Only PDF files are accepted."
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
