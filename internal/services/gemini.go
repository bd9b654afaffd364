package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"fatcat-backend/internal/models"
)

const transcribePrompt = "Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations."

type GeminiService struct {
	client    *genai.Client
	chatModel string
	ttsModel  string
	ttsVoice  string
	rateChan  chan struct{} // Token bucket
	initErr   error
}

// NewGeminiService builds the capability client. A missing or rejected API
// key does not fail construction: the service is returned with a sticky init
// error so every turn surfaces a 500 instead of the process never starting.
func NewGeminiService(apiKey, chatModel, ttsModel, ttsVoice string, concurrentReqs int) *GeminiService {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	s := &GeminiService{
		chatModel: chatModel,
		ttsModel:  ttsModel,
		ttsVoice:  ttsVoice,
		rateChan:  rateChan,
	}

	if apiKey == "" {
		s.initErr = errors.New("GEMINI_API_KEY is not set")
		return s
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		s.initErr = fmt.Errorf("failed to create Gemini client: %w", err)
		return s
	}

	s.client = client
	return s
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateReply produces the cat's answer for one turn: persona instructions
// with the real date, the sanitized history window, then the new user
// message. Empty model output falls back to a fixed phrase, never emptiness.
func (s *GeminiService) GenerateReply(ctx context.Context, history []models.Turn, message string) (string, error) {
	if s.client == nil {
		return "", s.initErr
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Content, turnRole(t.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildPersonaPrompt(time.Now()), genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.8)),
		MaxOutputTokens:   160,
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.chatModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.Println("WARNING: Gemini returned empty reply. Using fallback.")
		return fallbackReply, nil
	}
	return text, nil
}

// TranscribeAudio sends the raw audio bytes inline and asks for a verbatim
// transcript. A successful call with no speech yields an empty string; the
// caller decides what stands in for silence.
func (s *GeminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.client == nil {
		return "", s.initErr
	}
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.chatModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription error: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// SynthesizeSpeech renders text with the configured prebuilt voice. Gemini
// TTS answers with headerless PCM16, so the bytes are wrapped into a WAV
// container before returning.
func (s *GeminiService) SynthesizeSpeech(ctx context.Context, text string) ([]byte, string, error) {
	if s.client == nil {
		return nil, "", s.initErr
	}
	if err := s.acquireRate(ctx); err != nil {
		return nil, "", err
	}
	defer s.releaseRate()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.ttsVoice},
			},
		},
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.ttsModel, contents, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("Gemini TTS error: %w", err)
	}

	blob := extractAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, "", fmt.Errorf("Gemini TTS returned no audio data")
	}

	// Already containerized output passes through untouched.
	if mime := strings.ToLower(blob.MIMEType); strings.HasPrefix(mime, "audio/wav") ||
		strings.HasPrefix(mime, "audio/mpeg") || strings.HasPrefix(mime, "audio/ogg") {
		return blob.Data, blob.MIMEType, nil
	}

	wav := pcmToWAV(blob.Data, pcmSampleRate(blob.MIMEType), 1, 16)
	return wav, "audio/wav", nil
}

// turnRole maps a wire role onto the SDK's Role type. Anything that is not
// the assistant speaks as the user.
func turnRole(role string) genai.Role {
	if role == "assistant" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func extractAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}

// pcmSampleRate pulls the rate parameter out of a mime like
// "audio/L16;codec=pcm;rate=24000". Gemini TTS uses 24kHz mono.
func pcmSampleRate(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return 24000
}
