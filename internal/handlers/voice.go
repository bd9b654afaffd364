package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"fatcat-backend/internal/models"
	"fatcat-backend/internal/services"
)

type voiceCapability interface {
	replyGenerator
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, string, error)
}

type VoiceHandler struct {
	gemini     voiceCapability
	budget     services.BudgetFunc
	windowSize int
	maxAudio   int
}

func NewVoiceHandler(gemini voiceCapability, budget services.BudgetFunc, windowSize, maxAudio int) *VoiceHandler {
	return &VoiceHandler{
		gemini:     gemini,
		budget:     budget,
		windowSize: windowSize,
		maxAudio:   maxAudio,
	}
}

// stripDataURL removes a "data:...;base64," prefix when present.
func stripDataURL(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		if idx := strings.IndexByte(b64, ','); idx != -1 {
			return b64[idx+1:]
		}
	}
	return b64
}

// HandleVoice runs one voice turn as a strict pipeline: decode and validate
// audio, transcribe, generate a reply through the same path as text chat,
// clamp, synthesize speech. The turn fails atomically; no stage returns
// partial results.
func (h *VoiceHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResp("METHOD_NOT_ALLOWED", "Method not allowed", r))
		return
	}

	var req models.VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Audio) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing audio", r))
		return
	}

	audio, err := base64.StdEncoding.DecodeString(stripDataURL(req.Audio))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid base64", r))
		return
	}
	if len(audio) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Empty audio", r))
		return
	}
	if len(audio) > h.maxAudio {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Audio too large", r))
		return
	}

	history := models.SanitizeHistory(req.History, h.windowSize)

	// 1) Speech to text
	transcript, err := h.gemini.TranscribeAudio(r.Context(), audio, req.MimeType)
	if err != nil {
		log.Printf("voice transcription failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorRespDetail("AI_ERROR", "Voice request failed", err.Error(), r))
		return
	}
	if transcript == "" {
		transcript = services.UnintelligibleMarker
	}

	// 2) Reply, same path as the text turn
	reply, err := h.gemini.GenerateReply(r.Context(), history, transcript)
	if err != nil {
		log.Printf("voice reply failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorRespDetail("AI_ERROR", "Voice request failed", err.Error(), r))
		return
	}

	// 3) Clamp before it gets spoken
	reply = services.ClampSentences(reply, h.budget(transcript))

	// 4) Text to speech, with a little vocalization up front
	speech, mime, err := h.gemini.SynthesizeSpeech(r.Context(), "Mrrow~ "+reply)
	if err != nil {
		log.Printf("voice synthesis failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorRespDetail("AI_ERROR", "Voice request failed", err.Error(), r))
		return
	}

	writeJSON(w, http.StatusOK, models.VoiceResponse{
		Transcript: transcript,
		ReplyText:  reply,
		Audio:      base64.StdEncoding.EncodeToString(speech),
		AudioMime:  mime,
	})
}
