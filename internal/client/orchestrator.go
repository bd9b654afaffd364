// Package client is the turn orchestrator: it owns the local history window,
// talks to the chat and voice endpoints, and drives the avatar state machine
// in lockstep with playback.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"fatcat-backend/internal/history"
	"fatcat-backend/internal/models"
)

// FallbackBubble is what the UI renders when a turn fails outright. Failed
// turns are never appended to history.
const FallbackBubble = "Mrrp... the line went fuzzy, try me again?"

// Player renders synthesized speech. Play blocks until playback finishes and
// must invoke started once audio is actually audible, not on dispatch.
type Player interface {
	Play(ctx context.Context, audio []byte, mime string, started func()) error
	Stop()
}

// VoiceResult is one completed voice turn, ready for playback.
type VoiceResult struct {
	Transcript string
	ReplyText  string
	Audio      []byte
	AudioMime  string
}

type Orchestrator struct {
	baseURL    string
	httpClient *http.Client
	window     *history.Window
	store      history.Storage
	fsm        *AvatarFSM
	player     Player
}

type Option func(*Orchestrator)

func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.httpClient = c }
}

func WithPlayer(p Player) Option {
	return func(o *Orchestrator) { o.player = p }
}

func WithStateListener(onChange func(AvatarState)) Option {
	return func(o *Orchestrator) { o.fsm = NewAvatarFSM(onChange) }
}

// New builds an orchestrator whose window is seeded from store. Storage load
// failures are ignored by design: the conversation starts empty.
func New(baseURL string, windowSize int, store history.Storage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		window:     history.NewWindow(windowSize),
		store:      store,
		fsm:        NewAvatarFSM(nil),
	}
	for _, opt := range opts {
		opt(o)
	}
	if turns, err := store.Load(); err == nil {
		o.window.Seed(turns)
	}
	return o
}

// History returns the current window contents, oldest first.
func (o *Orchestrator) History() []models.Turn {
	return o.window.Turns()
}

// AvatarState exposes the current animation state.
func (o *Orchestrator) AvatarState() AvatarState {
	return o.fsm.State()
}

// SendText runs one text turn. History gains the user and assistant turns
// only after a definitive reply; an errored turn leaves it untouched.
func (o *Orchestrator) SendText(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty message")
	}

	o.stopPlayback()

	var resp models.ChatResponse
	err := o.postTurn(ctx, "/api/chat", models.ChatRequest{
		Message: text,
		History: o.window.Turns(),
	}, &resp)
	if err != nil {
		return "", err
	}

	o.commitTurn(text, resp.Reply)
	return resp.Reply, nil
}

// SendVoice runs one voice turn. The user turn recorded in history is the
// transcript the server heard, not the audio.
func (o *Orchestrator) SendVoice(ctx context.Context, audio []byte, mimeType string) (*VoiceResult, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty recording")
	}

	o.stopPlayback()

	var resp models.VoiceResponse
	err := o.postTurn(ctx, "/api/voice", models.VoiceRequest{
		Audio:    base64.StdEncoding.EncodeToString(audio),
		MimeType: mimeType,
		History:  o.window.Turns(),
	}, &resp)
	if err != nil {
		return nil, err
	}

	speech, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("undecodable audio in response: %w", err)
	}

	o.commitTurn(resp.Transcript, resp.ReplyText)

	return &VoiceResult{
		Transcript: resp.Transcript,
		ReplyText:  resp.ReplyText,
		Audio:      speech,
		AudioMime:  resp.AudioMime,
	}, nil
}

// PlayReply plays a voice result through the configured player, walking the
// avatar FSM through the playback lifecycle. Without a player it is a no-op.
func (o *Orchestrator) PlayReply(ctx context.Context, res *VoiceResult) error {
	if o.player == nil {
		return nil
	}

	o.stopPlayback()

	err := o.player.Play(ctx, res.Audio, res.AudioMime, func() {
		o.fsm.Handle(EventPlaybackStarted)
	})
	if err != nil {
		o.fsm.Handle(EventPlaybackError)
		return fmt.Errorf("playback failed: %w", err)
	}

	o.fsm.Handle(EventPlaybackEnded)
	o.fsm.Settle()
	return nil
}

// stopPlayback halts any previous playback sequence and releases the avatar
// before a new turn starts. Only one sequence is ever active.
func (o *Orchestrator) stopPlayback() {
	if o.player != nil {
		o.player.Stop()
	}
	o.fsm.Reset()
}

// commitTurn appends a completed exchange and persists the window. A failed
// save is logged but does not fail the turn.
func (o *Orchestrator) commitTurn(userText, replyText string) {
	o.window.Append(models.Turn{Role: "user", Content: userText})
	o.window.Append(models.Turn{Role: "assistant", Content: replyText})
	if err := o.store.Save(o.window.Turns()); err != nil {
		log.Printf("failed to persist history: %v", err)
	}
}

// postTurn submits one turn and decodes the response into out. The body is
// read as text first so a non-JSON answer (a proxy error page, say) becomes a
// readable error instead of a decode panic in the UI.
func (o *Orchestrator) postTurn(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope models.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			if envelope.Error.Detail != "" {
				return fmt.Errorf("%s - %s", envelope.Error.Message, envelope.Error.Detail)
			}
			return fmt.Errorf("%s", envelope.Error.Message)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("non-JSON response: %w", err)
	}
	return nil
}
