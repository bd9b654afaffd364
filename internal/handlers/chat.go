package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"fatcat-backend/internal/models"
	"fatcat-backend/internal/services"
)

type replyGenerator interface {
	GenerateReply(ctx context.Context, history []models.Turn, message string) (string, error)
}

type ChatHandler struct {
	gemini     replyGenerator
	budget     services.BudgetFunc
	windowSize int
	maxMessage int
}

func NewChatHandler(gemini replyGenerator, budget services.BudgetFunc, windowSize, maxMessage int) *ChatHandler {
	return &ChatHandler{
		gemini:     gemini,
		budget:     budget,
		windowSize: windowSize,
		maxMessage: maxMessage,
	}
}

// HandleChat runs one text turn: validate, sanitize history, generate, clamp.
// Validation failures never reach the capability.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp("METHOD_NOT_ALLOWED", "Method not allowed", r))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing message", r))
		return
	}

	if utf8.RuneCountInString(req.Message) > h.maxMessage {
		msg := fmt.Sprintf("Message too long (max %d chars)", h.maxMessage)
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", msg, r))
		return
	}

	history := models.SanitizeHistory(req.History, h.windowSize)

	reply, err := h.gemini.GenerateReply(r.Context(), history, req.Message)
	if err != nil {
		log.Printf("chat turn failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorRespDetail("AI_ERROR", "Chat request failed", err.Error(), r))
		return
	}

	reply = services.ClampSentences(reply, h.budget(req.Message))

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
