package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fatcat-backend/internal/history"
	"fatcat-backend/internal/models"
)

func newTestStore(t *testing.T) *history.FileStore {
	t.Helper()
	return history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
}

func TestSendText_AppendsAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message != "hello" {
			t.Errorf("Expected message 'hello', got %q", req.Message)
		}
		json.NewEncoder(w).Encode(models.ChatResponse{Reply: "Meow! Hello!"})
	}))
	defer srv.Close()

	store := newTestStore(t)
	o := New(srv.URL, 10, store)

	reply, err := o.SendText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}
	if reply != "Meow! Hello!" {
		t.Errorf("Expected reply, got %q", reply)
	}

	turns := o.History()
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Fatalf("Expected user+assistant turns, got %+v", turns)
	}

	// A fresh orchestrator rebuilds the same window from storage.
	o2 := New(srv.URL, 10, store)
	restored := o2.History()
	if len(restored) != 2 || restored[1].Content != "Meow! Hello!" {
		t.Errorf("Expected restored history, got %+v", restored)
	}
}

func TestSendText_ErrorLeavesHistoryUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Error: models.APIError{Code: "AI_ERROR", Message: "Chat request failed", Detail: "quota"},
		})
	}))
	defer srv.Close()

	o := New(srv.URL, 10, newTestStore(t))

	_, err := o.SendText(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "quota") {
		t.Errorf("Expected upstream detail in error, got %v", err)
	}
	if len(o.History()) != 0 {
		t.Errorf("Errored turn must not be appended, got %+v", o.History())
	}
}

func TestSendText_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	o := New(srv.URL, 10, newTestStore(t))

	_, err := o.SendText(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "non-JSON") {
		t.Errorf("Expected non-JSON error, got %v", err)
	}
}

func TestSendText_SendsBoundedHistory(t *testing.T) {
	var gotHistory []models.Turn
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotHistory = req.History
		json.NewEncoder(w).Encode(models.ChatResponse{Reply: "ok!"})
	}))
	defer srv.Close()

	o := New(srv.URL, 4, newTestStore(t))
	for i := 0; i < 5; i++ {
		if _, err := o.SendText(context.Background(), "ping"); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}

	// Five turns appended ten entries; the window caps what the last request
	// carried at four.
	if len(gotHistory) != 4 {
		t.Errorf("Expected 4 history entries on the wire, got %d", len(gotHistory))
	}
}

type fakePlayer struct {
	stops   int
	plays   int
	failErr error
}

func (p *fakePlayer) Play(ctx context.Context, audio []byte, mime string, started func()) error {
	p.plays++
	if p.failErr != nil {
		return p.failErr
	}
	started()
	return nil
}

func (p *fakePlayer) Stop() { p.stops++ }

func TestSendVoice_PlaybackDrivesFSM(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.VoiceResponse{
			Transcript: "hi cat",
			ReplyText:  "Meow!",
			Audio:      base64.StdEncoding.EncodeToString([]byte("wav")),
			AudioMime:  "audio/wav",
		})
	}))
	defer srv.Close()

	player := &fakePlayer{}
	var states []AvatarState
	o := New(srv.URL, 10, newTestStore(t),
		WithPlayer(player),
		WithStateListener(func(s AvatarState) { states = append(states, s) }))

	res, err := o.SendVoice(context.Background(), []byte("webm"), "audio/webm")
	if err != nil {
		t.Fatalf("SendVoice failed: %v", err)
	}
	if res.Transcript != "hi cat" || string(res.Audio) != "wav" {
		t.Errorf("Unexpected result: %+v", res)
	}

	// History records the transcript as the user turn.
	turns := o.History()
	if len(turns) != 2 || turns[0].Content != "hi cat" {
		t.Errorf("Expected transcript in history, got %+v", turns)
	}

	if err := o.PlayReply(context.Background(), res); err != nil {
		t.Fatalf("PlayReply failed: %v", err)
	}
	if o.AvatarState() != StateIdle {
		t.Errorf("Expected idle after playback, got %v", o.AvatarState())
	}
	// Sending the turn stopped any previous sequence, and playback stopped
	// once more before starting.
	if player.stops < 2 {
		t.Errorf("Expected previous playback released, stops=%d", player.stops)
	}

	sawSpeaking := false
	for _, s := range states {
		if s == StateSpeaking {
			sawSpeaking = true
		}
	}
	if !sawSpeaking {
		t.Errorf("Expected a speaking transition, got %v", states)
	}
}

func TestPlayReply_ErrorReturnsToIdle(t *testing.T) {
	player := &fakePlayer{failErr: context.DeadlineExceeded}
	o := New("http://unused", 10, newTestStore(t), WithPlayer(player))

	err := o.PlayReply(context.Background(), &VoiceResult{Audio: []byte("x"), AudioMime: "audio/wav"})
	if err == nil {
		t.Fatal("Expected playback error")
	}
	if o.AvatarState() != StateIdle {
		t.Errorf("Expected idle after playback error, got %v", o.AvatarState())
	}
}
