package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/messixieziyi/life-story/internal/domain/entities"
	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/domain/services"
)

// EngineFactory opens a speech engine over one recorded audio file.
type EngineFactory func(audioPath string) (ports.SpeechEngine, error)

// VoiceHandler turns recorded voice memos into text.
type VoiceHandler struct {
	newEngine EngineFactory
	locale    string
	logger    *log.Logger
}

// NewVoiceHandler creates a new voice handler.
func NewVoiceHandler(newEngine EngineFactory, locale string, logger *log.Logger) *VoiceHandler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &VoiceHandler{
		newEngine: newEngine,
		locale:    locale,
		logger:    logger,
	}
}

// VoiceResult contains the transcript of one file. SpeechErr is set when the
// engine reported a problem; Text still holds whatever was recognized.
type VoiceResult struct {
	FilePath  string
	Text      string
	SpeechErr *entities.SpeechError
}

// VoiceBatchResult contains the result of transcribing a directory.
type VoiceBatchResult struct {
	TotalFiles  int
	FileResults []*VoiceResult
	Errors      []error
}

// Handle transcribes one audio file. Cancelling ctx aborts the capture.
func (h *VoiceHandler) Handle(ctx context.Context, filePath string) (*VoiceResult, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	engine, err := h.newEngine(absPath)
	if err != nil {
		return nil, fmt.Errorf("creating speech engine: %w", err)
	}

	result := &VoiceResult{FilePath: absPath}
	session := services.StartSpeechSession(engine, h.locale, services.SpeechCallbacks{
		OnError: func(e *entities.SpeechError) {
			if result.SpeechErr == nil {
				result.SpeechErr = e
			}
		},
	}, h.logger)
	if session == nil {
		return result, nil
	}

	session.Start(ctx)
	select {
	case <-session.Done():
	case <-ctx.Done():
		session.Abort()
		<-session.Done()
		return nil, ctx.Err()
	}

	result.Text = strings.TrimSpace(session.Text())
	return result, nil
}

// HandleDirectory transcribes all matching files in a directory.
func (h *VoiceHandler) HandleDirectory(ctx context.Context, dirPath string, pattern string, recursive bool, progressFn func(file string)) (*VoiceBatchResult, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	files, err := h.findFiles(absPath, pattern, recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching pattern %q found in %s", pattern, absPath)
	}

	result := &VoiceBatchResult{
		FileResults: make([]*VoiceResult, 0, len(files)),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if progressFn != nil {
			progressFn(file)
		}

		fileResult, err := h.Handle(ctx, file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", file, err))
			continue
		}

		result.FileResults = append(result.FileResults, fileResult)
		result.TotalFiles++
	}

	return result, nil
}

// findFiles finds all files matching the pattern in the directory, in lexical order.
func (h *VoiceHandler) findFiles(dirPath string, pattern string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if !recursive && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}

		if matched {
			files = append(files, path)
		}

		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFn); err != nil {
		return nil, err
	}

	return files, nil
}

// IsDirectory checks if the given path is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
