package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int
	ChatModel            string
	TTSModel             string
	TTSVoice             string

	// Turn policy
	HistoryWindow        int
	MaxMessageChars      int
	MaxAudioBytes        int
	CasualSentences      int
	InformativeSentences int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  getEnvOrDefault("ENV", "development"),

		// The key may be absent; the capability service then answers every
		// turn with a configuration error instead of the process dying.
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		ChatModel:            getEnvOrDefault("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
		TTSModel:             getEnvOrDefault("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		TTSVoice:             getEnvOrDefault("GEMINI_TTS_VOICE", "Kore"),

		HistoryWindow:        getEnvAsIntOrDefault("HISTORY_WINDOW", 10),
		MaxMessageChars:      getEnvAsIntOrDefault("MAX_MESSAGE_CHARS", 800),
		MaxAudioBytes:        getEnvAsIntOrDefault("MAX_AUDIO_BYTES", 15*1024*1024),
		CasualSentences:      getEnvAsIntOrDefault("CASUAL_SENTENCES", 2),
		InformativeSentences: getEnvAsIntOrDefault("INFORMATIVE_SENTENCES", 10),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
