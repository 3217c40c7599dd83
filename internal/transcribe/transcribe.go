// Package transcribe downloads video audio with yt-dlp and transcribes it
// with whisper.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nexus-stack/nexus/internal/errors"
	"github.com/nexus-stack/nexus/internal/executor"
)

// requiredTools are the external programs transcription depends on.
var requiredTools = []string{"yt-dlp", "whisper", "ffmpeg"}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Transcriber drives the download and transcription pipeline.
type Transcriber struct {
	// OutputDir receives the audio file and the transcript.
	OutputDir string
	// Model is the whisper model name. Defaults to "base".
	Model string
	// Runner executes the external tools. Defaults to the OS runner.
	Runner executor.CommandRunner

	Logger *slog.Logger
}

// Result describes a completed transcription.
type Result struct {
	VideoID        string
	AudioPath      string
	TranscriptPath string
	Duration       time.Duration
}

// CheckDependencies verifies the external tools are installed, returning an
// error naming the first missing one.
func CheckDependencies() error {
	for _, tool := range requiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			return errors.TranscribeDependency(tool)
		}
	}
	return nil
}

// ExtractVideoID pulls the video ID out of a YouTube URL. Bare 11-character
// IDs are accepted as-is.
func ExtractVideoID(raw string) (string, error) {
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.TranscribeBadURL(raw)
	}

	var id string
	switch {
	case strings.HasSuffix(u.Host, "youtu.be"):
		id = strings.TrimPrefix(u.Path, "/")
	case strings.Contains(u.Host, "youtube.com"):
		if strings.HasPrefix(u.Path, "/shorts/") || strings.HasPrefix(u.Path, "/embed/") {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) == 2 {
				id = parts[1]
			}
		} else {
			id = u.Query().Get("v")
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", errors.TranscribeBadURL(raw)
	}
	return id, nil
}

// Run downloads the video's audio and transcribes it, writing both files to
// OutputDir.
func (t *Transcriber) Run(ctx context.Context, videoURL string) (*Result, error) {
	if err := CheckDependencies(); err != nil {
		return nil, err
	}

	id, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := t.Runner
	if runner == nil {
		runner = &executor.OSRunner{}
	}
	model := t.Model
	if model == "" {
		model = "base"
	}

	if err := os.MkdirAll(t.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	start := time.Now()
	audioPath := filepath.Join(t.OutputDir, id+".mp3")

	logger.Info("downloading audio", "video", id)
	res, err := runner.Run(ctx, executor.Command{
		Argv: []string{
			"yt-dlp",
			"--extract-audio",
			"--audio-format", "mp3",
			"--output", audioPath,
			"https://www.youtube.com/watch?v=" + id,
		},
		Timeout: 10 * time.Minute,
	})
	if err != nil {
		return nil, errors.TranscribeFailed("download", err)
	}
	if res.TimedOut || res.ExitCode != 0 {
		return nil, errors.TranscribeFailed("download", fmt.Errorf("yt-dlp exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr)))
	}

	logger.Info("transcribing audio", "video", id, "model", model)
	res, err = runner.Run(ctx, executor.Command{
		Argv: []string{
			"whisper", audioPath,
			"--model", model,
			"--output_format", "txt",
			"--output_dir", t.OutputDir,
		},
		Timeout: 30 * time.Minute,
	})
	if err != nil {
		return nil, errors.TranscribeFailed("transcription", err)
	}
	if res.TimedOut || res.ExitCode != 0 {
		return nil, errors.TranscribeFailed("transcription", fmt.Errorf("whisper exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr)))
	}

	return &Result{
		VideoID:        id,
		AudioPath:      audioPath,
		TranscriptPath: filepath.Join(t.OutputDir, id+".txt"),
		Duration:       time.Since(start),
	}, nil
}
