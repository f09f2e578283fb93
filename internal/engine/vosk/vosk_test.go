package vosk

import (
	"context"
	"errors"
	"testing"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/services"
)

func TestDecodeResult(t *testing.T) {
	raw := `{
  "result" : [{
      "conf" : 1.000000,
      "end" : 1.020000,
      "start" : 0.600000,
      "word" : "你好"
    }, {
      "conf" : 0.87,
      "end" : 1.50000,
      "start" : 1.020000,
      "word" : "世界"
    }],
  "text" : "你好 世界"
}`
	seg, ok, err := DecodeResult(raw)
	if err != nil || !ok {
		t.Fatalf("DecodeResult: ok=%v err=%v", ok, err)
	}
	if seg.Start != 0.6 || seg.End != 1.5 || seg.Text != "你好 世界" {
		t.Fatalf("unexpected segment %+v", seg)
	}
	if len(seg.Words) != 2 || seg.Words[1].Text != "世界" {
		t.Fatalf("unexpected words %+v", seg.Words)
	}

	cues := engine.Cues([]engine.Segment{seg}, 20)
	if len(cues) != 1 || cues[0].Text != "你好世界" {
		t.Fatalf("unexpected cues %+v", cues)
	}
}

func TestDecodeResultWithoutWords(t *testing.T) {
	for _, raw := range []string{`{"text" : ""}`, `{"result": [], "text": ""}`} {
		_, ok, err := DecodeResult(raw)
		if err != nil || ok {
			t.Fatalf("expected empty record for %s, got ok=%v err=%v", raw, ok, err)
		}
	}
	if _, _, err := DecodeResult("not json"); err == nil {
		t.Fatal("expected error for malformed record")
	}
}

func TestFramesPercent(t *testing.T) {
	if framesPercent(4000, 16000) != 25 || framesPercent(16000, 16000) != 100 || framesPercent(1, 0) != 0 {
		t.Fatal("unexpected percent")
	}
}

func TestLoaderRejectsGPU(t *testing.T) {
	l := NewLoader(Config{ModelDir: t.TempDir()}, nil)
	_, err := l.Load(context.Background(), backend.Plan{Backend: backend.GPUPrimary, Device: backend.DeviceCUDA})
	if !errors.Is(err, services.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable for gpu plan, got %v", err)
	}
	if l.cfg.ChunkFrames != DefaultChunkFrames {
		t.Fatalf("expected default chunk frames, got %d", l.cfg.ChunkFrames)
	}
}
