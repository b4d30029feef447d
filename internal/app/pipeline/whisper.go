package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"plumberf/internal/app/storage/upload"
)

// OpenAIConfig configures the client used by the transcription stage.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewOpenAIClient builds an OpenAI client from cfg.
func NewOpenAIClient(cfg OpenAIConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(config)
}

type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// audioExtensions are sent to the API as is; anything else is treated as
// video and reduced to an mp3 track first when ffmpeg is available.
var audioExtensions = []string{".mp3", ".m4a", ".wav", ".webm", ".mpga", ".ogg", ".flac"}

// WhisperTranscriber transcribes job videos with the OpenAI Whisper API.
type WhisperTranscriber struct {
	client       transcriptionClient
	fetcher      upload.Fetcher
	model        string
	extractAudio bool
	logger       *zap.Logger
}

// NewWhisperTranscriber creates a transcriber. When extractAudio is set,
// video files are converted to mp3 with ffmpeg before upload.
func NewWhisperTranscriber(client *openai.Client, fetcher upload.Fetcher, model string, extractAudio bool, logger *zap.Logger) *WhisperTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhisperTranscriber{client: client, fetcher: fetcher, model: model, extractAudio: extractAudio, logger: logger}
}

// FFmpegAvailable reports whether ffmpeg is on PATH.
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Transcribe implements Transcriber.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, in Input) (*Transcript, error) {
	localPath, cleanup, err := w.fetcher.Fetch(ctx, in.FileURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", in.FileURL, err)
	}
	defer cleanup()

	audioPath := localPath
	if w.extractAudio && !lo.Contains(audioExtensions, strings.ToLower(filepath.Ext(localPath))) {
		mp3, err := convertToMp3(ctx, localPath)
		if err != nil {
			return nil, err
		}
		defer os.Remove(mp3)
		audioPath = mp3
	}

	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: in.Language,
	}
	start := time.Now()
	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}
	w.logger.Debug("transcribed",
		zap.Int64("job_video_id", in.JobVideoID),
		zap.Int("segments", len(resp.Segments)),
		zap.Duration("elapsed", time.Since(start)))

	t := &Transcript{
		Text:        resp.Text,
		Language:    languageCode(resp.Language),
		DurationSec: resp.Duration,
		Segments:    make([]Segment, 0, len(resp.Segments)),
	}
	for _, s := range resp.Segments {
		t.Segments = append(t.Segments, Segment{Start: s.Start, End: s.End, Text: s.Text, AvgLogprob: s.AvgLogprob})
	}
	return t, nil
}

func convertToMp3(ctx context.Context, videoPath string) (string, error) {
	mp3Path := filepath.Join(os.TempDir(), fmt.Sprintf("plumberf-%d-%s.mp3",
		time.Now().UnixNano(), strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))))

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", videoPath, "-vn", "-acodec", "libmp3lame", mp3Path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(mp3Path)
		return "", fmt.Errorf("FFmpeg error: %v, stderr: %s", err, lastLine(stderr.String()))
	}
	return mp3Path, nil
}

// languageCode maps the language names returned by verbose_json to ISO codes.
func languageCode(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "english":
		return "en"
	case "spanish":
		return "es"
	case "french":
		return "fr"
	case "german":
		return "de"
	case "portuguese":
		return "pt"
	case "polish":
		return "pl"
	}
	if len(lang) > 5 {
		return ""
	}
	return lang
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
