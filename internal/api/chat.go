package api

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ukuvi-assistant/internal/assistant"
	"ukuvi-assistant/internal/chat"
	"ukuvi-assistant/internal/messaging"
	"ukuvi-assistant/internal/ratelimit"
	"ukuvi-assistant/pkg/api"
)

const (
	msgMessageRequired   = "El mensaje es requerido"
	msgSessionIDRequired = "El session ID es requerido"
	msgRateLimited       = "Has excedido el límite de mensajes. Por favor espera un momento."
	msgGenerationFailed  = "Error al generar respuesta. Por favor, intenta de nuevo."

	maxHistoryLimit = 500
)

type ChatService struct {
	limiter   *ratelimit.SlidingWindow
	responder assistant.Responder
	publisher messaging.Publisher
	store     chat.ConversationStore
}

func NewChatService(
	limiter *ratelimit.SlidingWindow,
	responder assistant.Responder,
	publisher messaging.Publisher,
	store chat.ConversationStore,
) *ChatService {
	return &ChatService{
		limiter:   limiter,
		responder: responder,
		publisher: publisher,
		store:     store,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", RestHandler(s.Chat))
		r.Post("/sessions", RestHandler(s.StartSession))
		r.Get("/sessions/{session_id}/history", RestHandler(s.GetHistory))
		r.Get("/welcome", RestHandler(s.Welcome))
	})
}

func requiredString(v any) (string, bool) {
	str, ok := v.(string)
	return str, ok && str != ""
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	message, ok := requiredString(req.Message)
	if !ok {
		return nil, CodedErrorf(http.StatusBadRequest, msgMessageRequired)
	}

	sessionID, ok := requiredString(req.SessionID)
	if !ok {
		return nil, CodedErrorf(http.StatusBadRequest, msgSessionIDRequired)
	}

	if !s.limiter.Allow(sessionID) {
		slog.Warn("session rate limited", "session_id", sessionID)
		retryAfter := int(math.Ceil(s.limiter.RetryAfter(sessionID).Seconds()))
		return nil, codedErrorWithHeaders(
			http.StatusTooManyRequests,
			errors.New(msgRateLimited),
			http.Header{"Retry-After": []string{strconv.Itoa(max(retryAfter, 1))}},
		)
	}

	reply, err := s.responder.Respond(r.Context(), assistant.Request{
		SessionID: sessionID,
		Message:   message,
		History:   convertHistory(req.History),
	})
	if err != nil {
		if errors.Is(err, assistant.ErrGeneration) {
			slog.Error("error generating response", "session_id", sessionID, "responder", s.responder.Name(), "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, msgGenerationFailed)
		}
		return nil, err
	}

	conversation := chat.NewConversation(sessionID, message, reply.Text, chat.Metadata{
		Responder: reply.Responder,
		Rule:      reply.Rule,
	})
	if err := s.publisher.PublishConversation(r.Context(), messaging.NewConversationPayload(conversation)); err != nil {
		slog.Warn("conversation not persisted", "session_id", sessionID, "error", err)
	}

	return api.ChatResponse{Response: reply.Text, SessionID: sessionID}, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	return api.StartSessionResponse{SessionID: uuid.New().String()}, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	sessionID, err := URLParamSessionID(r, "session_id")
	if err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[api.HistoryParams](r)
	if err != nil {
		return nil, err
	}
	if params.Limit < 0 || params.Limit > maxHistoryLimit {
		return nil, CodedErrorf(http.StatusBadRequest, "limit must be between 0 and %d", maxHistoryLimit)
	}

	conversations, err := s.store.QueryBySession(r.Context(), sessionID, params.Limit)
	if err != nil {
		slog.Error("error loading history", "session_id", sessionID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, msgUnexpected)
	}

	return api.HistoryResponse{
		SessionID:     sessionID,
		Conversations: convertConversations(conversations),
	}, nil
}

func (s *ChatService) Welcome(r *http.Request) (any, error) {
	return api.WelcomeResponse{Message: assistant.WelcomeMessage}, nil
}
