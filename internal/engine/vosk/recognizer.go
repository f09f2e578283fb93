//go:build vosk

package vosk

import (
	"context"
	"fmt"

	voskapi "github.com/alphacep/vosk-api/go"

	"subgen/internal/audio"
	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/logging"
	"subgen/internal/services"
)

func init() {
	voskapi.SetLogLevel(-1)
}

// Load opens the model. GPU plans are rejected.
func (l *Loader) Load(_ context.Context, plan backend.Plan) (engine.Session, error) {
	if plan.Backend.IsGPU() {
		return nil, services.Wrap(services.ErrBackendUnavailable, "vosk", "load", "vosk runs on cpu only", nil)
	}
	model, err := voskapi.NewModel(l.cfg.ModelDir)
	if err != nil {
		return nil, services.Wrap(services.ErrModelAcquisition, "vosk", "load model", l.cfg.ModelDir, err)
	}
	l.logger.Info("model loaded", logging.String("model_dir", l.cfg.ModelDir))
	return &session{loader: l, model: model}, nil
}

type session struct {
	loader *Loader
	model  *voskapi.VoskModel
}

// Transcribe streams the WAV through a fresh recognizer.
func (s *session) Transcribe(ctx context.Context, req engine.Request) (engine.Transcript, error) {
	var transcript engine.Transcript
	info, err := audio.Inspect(req.AudioPath)
	if err != nil {
		return transcript, err
	}
	if err := audio.RequireMonoPCM16(info); err != nil {
		return transcript, err
	}
	transcript.Duration = info.Seconds()
	transcript.Language = req.Language

	rec, err := voskapi.NewRecognizer(s.model, float64(info.SampleRate))
	if err != nil {
		return transcript, services.Wrap(services.ErrEngineRuntime, "vosk", "new recognizer", "", err)
	}
	defer rec.Free()
	rec.SetWords(1)

	collect := func(raw string) error {
		seg, ok, err := DecodeResult(raw)
		if err != nil {
			return services.Wrap(services.ErrEngineRuntime, "vosk", "decode", "", err)
		}
		if ok {
			transcript.Segments = append(transcript.Segments, seg)
		}
		return nil
	}

	err = audio.Frames(req.AudioPath, s.loader.cfg.ChunkFrames, func(chunk []byte, read, total int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		req.ReportProgress(framesPercent(read, total))
		if rec.AcceptWaveform(chunk) != 0 {
			return collect(rec.Result())
		}
		return nil
	})
	if err != nil {
		return transcript, fmt.Errorf("vosk stream: %w", err)
	}
	if err := collect(rec.FinalResult()); err != nil {
		return transcript, err
	}
	return transcript, nil
}

// Close frees the model.
func (s *session) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}
