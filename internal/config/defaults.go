package config

const (
	defaultBind    = "127.0.0.1:8377"
	defaultDataDir = "~/.local/share/memoir"
	defaultLogDir  = "~/.local/share/memoir/logs"

	defaultTokenTTLMinutes = 60
	defaultBcryptCost      = 10

	defaultTranscriptionProvider = "simulated"
	defaultTranscriptionBaseURL  = "https://api.openai.com/v1/audio/transcriptions"
	defaultTranscriptionModel    = "whisper-1"
	defaultTranscriptionTimeout  = 60
	defaultDedupWindowSeconds    = 10

	defaultStoryBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultStoryModel   = "gpt-4"
	defaultStoryTimeout = 120

	defaultEmailBaseURL        = "https://api.resend.com"
	defaultEmailFrom           = "Memoir <onboarding@resend.dev>"
	defaultEmailSubject        = "Your Life Story"
	defaultEmailRequestTimeout = 10

	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:    defaultBind,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Auth: Auth{
			TokenTTLMinutes: defaultTokenTTLMinutes,
			BcryptCost:      defaultBcryptCost,
		},
		Transcription: Transcription{
			Provider:           defaultTranscriptionProvider,
			BaseURL:            defaultTranscriptionBaseURL,
			Model:              defaultTranscriptionModel,
			TimeoutSeconds:     defaultTranscriptionTimeout,
			DedupWindowSeconds: defaultDedupWindowSeconds,
		},
		Story: Story{
			BaseURL:        defaultStoryBaseURL,
			Model:          defaultStoryModel,
			TimeoutSeconds: defaultStoryTimeout,
		},
		Email: Email{
			BaseURL:        defaultEmailBaseURL,
			From:           defaultEmailFrom,
			Subject:        defaultEmailSubject,
			RequestTimeout: defaultEmailRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
