// Package handler adapts API Gateway proxy events to the chat service.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"dataset-agent/internal/domain"
	"dataset-agent/internal/usecase"
)

// UseCase is the chat pipeline consumed by the handler.
type UseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply          string          `json:"reply"`
	Sources        []domain.Source `json:"sources"`
	ConversationID string          `json:"conversationId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	uc UseCase
}

func NewHandler(uc UseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

// Handle serves one POST /chat request.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := correlationID(event.Headers)

	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return jsonResponse(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput)}, corrID), nil
	}

	out, err := h.uc.Chat(ctx, usecase.ChatInput{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		status, code := statusFor(err)
		return jsonResponse(status, errorResponse{Error: code}, corrID), nil
	}

	sources := out.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	return jsonResponse(http.StatusOK, chatResponse{
		Reply:          out.Reply,
		Sources:        sources,
		ConversationID: out.ConversationID,
	}, corrID), nil
}

func statusFor(err error) (int, string) {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		switch ucErr.Code {
		case usecase.ErrorInvalidInput:
			return http.StatusBadRequest, string(ucErr.Code)
		case usecase.ErrorInternal:
			return http.StatusInternalServerError, string(ucErr.Code)
		}
	}
	return http.StatusInternalServerError, string(usecase.ErrorInternal)
}

// correlationID reuses the caller's correlation header when present,
// matching case-insensitively, and mints a fresh ID otherwise.
func correlationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "X-Correlation-Id") && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

func jsonResponse(status int, body any, corrID string) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		// Response shapes above are always marshalable; guard anyway.
		b = []byte(`{"error":"INTERNAL_ERROR"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"X-Correlation-Id": corrID,
		},
		Body: string(b),
	}
}
