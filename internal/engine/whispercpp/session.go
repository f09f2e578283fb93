//go:build whisper_cpp

package whispercpp

import (
	"context"
	"errors"
	"io"
	"runtime"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"subgen/internal/audio"
	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/services"
)

// Load reads the GGML model. GPU plans are rejected.
func (l *Loader) Load(_ context.Context, plan backend.Plan) (engine.Session, error) {
	if plan.Backend.IsGPU() {
		return nil, services.Wrap(services.ErrBackendUnavailable, "whisper-cpp", "load", "cpu-only build", nil)
	}
	model, err := whisperpkg.New(l.cfg.ModelPath)
	if err != nil {
		return nil, services.Wrap(services.ErrModelAcquisition, "whisper-cpp", "load model", l.cfg.ModelPath, err)
	}
	l.logger.Info("model loaded",
		logging.String("model", l.cfg.ModelPath),
		logging.String("compute_type", plan.ComputeType),
	)
	return &session{loader: l, model: model}, nil
}

type session struct {
	loader *Loader
	model  whisperpkg.Model
}

// Transcribe decodes the WAV to 16 kHz mono float samples and runs the model.
// VAD is not available in the bindings; the retry pass decodes again as is.
func (s *session) Transcribe(ctx context.Context, req engine.Request) (engine.Transcript, error) {
	var transcript engine.Transcript
	samples, err := audio.DecodeFloat32(req.AudioPath)
	if err != nil {
		return transcript, err
	}
	transcript.Duration = float64(len(samples)) / float64(audio.WhisperSampleRate)

	wctx, err := s.model.NewContext()
	if err != nil {
		return transcript, services.Wrap(services.ErrEngineRuntime, "whisper-cpp", "new context", "", err)
	}
	threads := s.loader.cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))
	language := req.Language
	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return transcript, services.Wrap(services.ErrEngineRuntime, "whisper-cpp", "set language", language, err)
	}
	wctx.SetTokenTimestamps(true)
	wctx.SetSplitOnWord(true)

	progress := func(percent int) {
		if ctx.Err() == nil {
			req.ReportProgress(percent)
		}
	}
	if err := wctx.Process(samples, nil, nil, progress); err != nil {
		return transcript, services.Wrap(services.ErrEngineRuntime, "whisper-cpp", "process", "", err)
	}
	if err := ctx.Err(); err != nil {
		return transcript, err
	}

	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return transcript, services.Wrap(services.ErrEngineRuntime, "whisper-cpp", "read segment", "", err)
		}
		tokens := make([]token, 0, len(seg.Tokens))
		for _, tok := range seg.Tokens {
			tokens = append(tokens, token{text: tok.Text, start: tok.Start, end: tok.End})
		}
		transcript.Segments = append(transcript.Segments, buildSegment(seg.Start, seg.End, seg.Text, tokens))
	}
	transcript.Language = wctx.DetectedLanguage()
	if transcript.Language == "" {
		transcript.Language = req.Language
	}
	req.ReportProgress(100)
	return transcript, nil
}

// Close releases the model.
func (s *session) Close() error {
	if s.model == nil {
		return nil
	}
	err := s.model.Close()
	s.model = nil
	if err != nil {
		return services.Wrap(services.ErrEngineRuntime, "whisper-cpp", "close", "", err)
	}
	return nil
}
