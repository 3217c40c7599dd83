package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexus-stack/nexus/internal/config"
	"github.com/nexus-stack/nexus/internal/format"
	"github.com/nexus-stack/nexus/internal/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <video-url>",
	Short: "Download and transcribe a video",
	Long: `Download a video's audio with yt-dlp and transcribe it with whisper.
Requires yt-dlp, whisper, and ffmpeg on PATH. The transcript is written
to the configured transcriptions directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

var transcribeModel string

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeModel, "model", "m", "base", "whisper model to use")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	t := &transcribe.Transcriber{
		OutputDir: cfg.TranscriptionsDir(config.DefaultDir()),
		Model:     transcribeModel,
		Logger:    logger,
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Transcribing (this can take a while)...")
	res, err := t.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	format.Success(out, format.Options{Verbose: verbose, NoColor: noColor}, "Transcript written to %s (%s)", res.TranscriptPath, res.Duration.Round(time.Second))
	return nil
}
