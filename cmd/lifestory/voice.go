package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/application/handlers"
	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
	llm "github.com/messixieziyi/life-story/internal/infrastructure/llm/openai"
)

// maxTitleRunes bounds the title taken from a transcript.
const maxTitleRunes = 30

type voiceFlags struct {
	pattern   string
	recursive bool
	save      bool
	eventType string
}

func newVoiceCmd() *cobra.Command {
	var flags voiceFlags

	cmd := &cobra.Command{
		Use:   "voice <audio-file|directory>",
		Short: "Transcribe voice memos",
		Long: "Transcribes recorded voice memos with the configured speech model. " +
			"With --save each transcript becomes a new event.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoice(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.pattern, "pattern", "p", DefaultVoicePattern, "File pattern for directory mode")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().BoolVarP(&flags.save, "save", "s", false, "Save each transcript as an event")
	cmd.Flags().StringVar(&flags.eventType, "type", "", "Event type for saved transcripts")

	return cmd
}

func runVoice(cmd *cobra.Command, path string, flags voiceFlags) error {
	ctx := cmd.Context()

	return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
		handler := handlers.NewVoiceHandler(transcriberFactory(d.Config), d.Config.Speech.Locale, d.logger)

		var results []*handlers.VoiceResult
		if handlers.IsDirectory(path) {
			batch, err := handler.HandleDirectory(ctx, path, flags.pattern, flags.recursive, func(file string) {
				fmt.Printf("Transcribing %s...\n", file)
			})
			if err != nil {
				return err
			}
			for _, e := range batch.Errors {
				fmt.Printf("  error: %v\n", e)
			}
			results = batch.FileResults
		} else {
			result, err := handler.Handle(ctx, path)
			if err != nil {
				return err
			}
			results = []*handlers.VoiceResult{result}
		}

		for _, r := range results {
			if r.SpeechErr != nil {
				fmt.Printf("%s: %s\n", r.FilePath, r.SpeechErr.Message())
				continue
			}
			fmt.Printf("%s:\n  %s\n", r.FilePath, r.Text)

			if flags.save && r.Text != "" {
				ev, err := d.Journal.HandleAdd(ctx, entities.Draft{
					Title:       titleFromTranscript(r.Text),
					Description: r.Text,
					Type:        flags.eventType,
				})
				if err != nil {
					return describeWriteError(err)
				}
				fmt.Printf("  saved as %s\n", ev.ID)
			}
		}
		return nil
	})
}

func transcriberFactory(cfg *config.Config) handlers.EngineFactory {
	return func(audioPath string) (ports.SpeechEngine, error) {
		t, err := llm.NewTranscriber(cfg.LLM, cfg.Speech, audioPath)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// titleFromTranscript uses the first sentence, cut to maxTitleRunes.
func titleFromTranscript(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, "。！？.!?\n"); i > 0 {
		text = text[:i]
	}
	if utf8.RuneCountInString(text) > maxTitleRunes {
		runes := []rune(text)
		text = string(runes[:maxTitleRunes]) + "…"
	}
	return text
}
