package models

// VoiceRequest carries one recorded utterance. Audio is base64 encoded and may
// arrive with a data-URL prefix, which is stripped before decoding.
type VoiceRequest struct {
	Audio    string `json:"audio"`
	MimeType string `json:"mimeType"`
	History  []Turn `json:"history"`
}

// VoiceResponse returns the full voice round-trip: what was heard, what the
// cat said, and the synthesized speech.
type VoiceResponse struct {
	Transcript string `json:"transcript"`
	ReplyText  string `json:"replyText"`
	Audio      string `json:"audio"` // base64
	AudioMime  string `json:"audioMime"`
}
