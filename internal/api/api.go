package api

import (
	"errors"
	"log/slog"
	"net/http"

	"ukuvi-assistant/internal/assistant"
	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/rules"
	"ukuvi-assistant/internal/storage"
	"ukuvi-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
)

// BackendService serves operational endpoints: health and transcript export.
type BackendService struct {
	store     chat.ConversationStore
	objects   storage.ObjectStore
	bucket    string
	responder assistant.Responder
	rules     rules.Source
}

func NewBackendService(store chat.ConversationStore, objects storage.ObjectStore, bucket string, responder assistant.Responder, rules rules.Source) *BackendService {
	return &BackendService{store: store, objects: objects, bucket: bucket, responder: responder, rules: rules}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(s.Health))
	r.Route("/transcripts/{session_id}", func(r chi.Router) {
		r.Post("/", RestHandler(s.ExportTranscript))
		r.Get("/", RestHandler(s.ListTranscripts))
	})
}

func (s *BackendService) Health(r *http.Request) (any, error) {
	return api.HealthResponse{
		Status:    "ok",
		Responder: s.responder.Name(),
		Rules:     s.rules.Table().Len(),
	}, nil
}

func (s *BackendService) ExportTranscript(r *http.Request) (any, error) {
	sessionID, err := URLParamSessionID(r, "session_id")
	if err != nil {
		return nil, err
	}

	key, err := chat.ExportTranscript(r.Context(), s.store, s.objects, s.bucket, sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrEmptySession) {
			return nil, CodedErrorf(http.StatusNotFound, "no conversations found for session %s", sessionID)
		}
		slog.Error("error exporting transcript", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, msgUnexpected)
	}

	return api.ExportResponse{Bucket: s.bucket, Key: key}, nil
}

func (s *BackendService) ListTranscripts(r *http.Request) (any, error) {
	sessionID, err := URLParamSessionID(r, "session_id")
	if err != nil {
		return nil, err
	}

	objects, err := s.objects.ListObjects(r.Context(), s.bucket, chat.TranscriptPrefix(sessionID))
	if err != nil {
		slog.Error("error listing transcripts", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, msgUnexpected)
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Name)
	}

	return api.TranscriptsResponse{SessionID: sessionID, Keys: keys}, nil
}
