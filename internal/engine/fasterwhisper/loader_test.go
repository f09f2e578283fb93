package fasterwhisper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/services"
)

type nopWriteCloser struct {
	*bytes.Buffer
	closed bool
}

func (n *nopWriteCloser) Close() error {
	n.closed = true
	return nil
}

type fakeProcess struct {
	stdin   *nopWriteCloser
	stdout  io.Reader
	stderr  string
	waitErr error
	waited  bool
}

func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *fakeProcess) Stdout() io.Reader     { return p.stdout }
func (p *fakeProcess) Stderr() string        { return p.stderr }
func (p *fakeProcess) Wait() error {
	p.waited = true
	return p.waitErr
}

type starterCall struct {
	name string
	args []string
	env  []string
}

func scriptedStarter(output string, waitErr error, calls *[]starterCall, procs *[]*fakeProcess) Starter {
	return func(_ context.Context, name string, args, env []string) (Process, error) {
		*calls = append(*calls, starterCall{name: name, args: args, env: env})
		p := &fakeProcess{
			stdin:   &nopWriteCloser{Buffer: &bytes.Buffer{}},
			stdout:  strings.NewReader(output),
			stderr:  "traceback tail",
			waitErr: waitErr,
		}
		*procs = append(*procs, p)
		return p, nil
	}
}

func newTestLoader(t *testing.T, output string, waitErr error) (*Loader, *[]starterCall, *[]*fakeProcess) {
	t.Helper()
	var (
		calls []starterCall
		procs []*fakeProcess
	)
	loader := NewLoader(Config{
		Python:            "python-test",
		Model:             "small",
		HelperDir:         t.TempDir(),
		HFEndpoint:        "https://hf-mirror.com",
		BeamSize:          5,
		RepetitionPenalty: 1.3,
		NoSpeechThreshold: 0.4,
	}, WithProcessStarter(scriptedStarter(output, waitErr, &calls, &procs)))
	return loader, &calls, &procs
}

var gpuPlan = backend.Plan{Backend: backend.GPUPrimary, Device: backend.DeviceCUDA, ComputeType: "int8"}

func TestLoadAndTranscribe(t *testing.T) {
	output := strings.Join([]string{
		"Some library banner",
		`{"event":"ready","device":"cuda","compute_type":"int8"}`,
		`{"event":"info","language":"zh","language_probability":0.98,"duration":4.0}`,
		`{"event":"segment","start":0.0,"end":2.0,"text":"你好","words":[{"start":0.0,"end":1.0,"word":"你"},{"start":1.0,"end":2.0,"word":"好"}]}`,
		`{"event":"segment","start":2.0,"end":4.0,"text":" 世界 ","words":[]}`,
		`{"event":"done","segments":2}`,
	}, "\n") + "\n"
	loader, calls, procs := newTestLoader(t, output, nil)

	session, err := loader.Load(context.Background(), gpuPlan)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var progress []int
	transcript, err := session.Transcribe(context.Background(), engine.Request{
		AudioPath: "/tmp/in.wav",
		Language:  "zh",
		Progress:  func(p int) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if transcript.Language != "zh" || transcript.Duration != 4.0 || len(transcript.Segments) != 2 {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
	if words := transcript.Segments[0].Words; len(words) != 2 || words[1].Text != "好" {
		t.Fatalf("unexpected words %+v", words)
	}
	if len(transcript.Segments[1].Words) != 0 {
		t.Fatal("expected segment without word timings")
	}
	if len(progress) != 2 || progress[0] != 50 || progress[1] != 100 {
		t.Fatalf("unexpected progress %v", progress)
	}

	call := (*calls)[0]
	if call.name != "python-test" {
		t.Fatalf("unexpected interpreter %q", call.name)
	}
	joined := strings.Join(call.args, " ")
	for _, want := range []string{"serve", "--model small", "--device cuda", "--compute-type int8", "--beam-size 5", "--repetition-penalty 1.3"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
	if !containsEnv(call.env, "HF_ENDPOINT=https://hf-mirror.com") {
		t.Fatal("expected HF_ENDPOINT in helper env")
	}
	proc := (*procs)[0]
	if !strings.Contains(proc.stdin.String(), `"audio":"/tmp/in.wav"`) {
		t.Fatalf("unexpected request %q", proc.stdin.String())
	}
	if !proc.stdin.closed || !proc.waited {
		t.Fatal("expected Close to end the helper")
	}
}

func TestLoadGPUFailureIsBackendUnavailable(t *testing.T) {
	output := `{"event":"error","kind":"runtime","message":"Library cublas64_12.dll is not found"}` + "\n"
	loader, _, procs := newTestLoader(t, output, errors.New("exit status 1"))

	_, err := loader.Load(context.Background(), gpuPlan)
	if !errors.Is(err, services.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
	if !(*procs)[0].waited {
		t.Fatal("expected failed helper to be reaped")
	}
}

func TestLoadCPUFailureIsRuntime(t *testing.T) {
	output := `{"event":"error","kind":"runtime","message":"bad model"}` + "\n"
	loader, _, _ := newTestLoader(t, output, nil)
	cpuPlan := backend.Plan{Backend: backend.CPU, Device: backend.DeviceCPU, ComputeType: "int8"}
	_, err := loader.Load(context.Background(), cpuPlan)
	if !errors.Is(err, services.ErrEngineRuntime) {
		t.Fatalf("expected engine runtime error, got %v", err)
	}
}

func TestTranscribeHelperCrash(t *testing.T) {
	output := `{"event":"ready","device":"cuda","compute_type":"int8"}` + "\n" +
		`{"event":"info","language":"zh","duration":10}` + "\n"
	loader, _, _ := newTestLoader(t, output, errors.New("signal: segmentation fault"))
	session, err := loader.Load(context.Background(), gpuPlan)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = session.Transcribe(context.Background(), engine.Request{AudioPath: "a.wav"})
	if !errors.Is(err, services.ErrEngineRuntime) {
		t.Fatalf("expected runtime error on crash, got %v", err)
	}
	if !strings.Contains(err.Error(), "traceback tail") {
		t.Fatalf("expected stderr tail in error, got %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Close after abort should be a no-op, got %v", err)
	}
}

func TestTranscribeErrorEvent(t *testing.T) {
	output := `{"event":"ready"}` + "\n" +
		`{"event":"error","kind":"backend_unavailable","message":"CUDA failed with error out of memory"}` + "\n"
	loader, _, _ := newTestLoader(t, output, nil)
	session, err := loader.Load(context.Background(), gpuPlan)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer session.Close()
	if _, err := session.Transcribe(context.Background(), engine.Request{AudioPath: "a.wav"}); !errors.Is(err, services.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}

func TestCloseReportsExitFailure(t *testing.T) {
	output := `{"event":"ready"}` + "\n"
	loader, _, _ := newTestLoader(t, output, errors.New("exit status 3221226505"))
	session, err := loader.Load(context.Background(), gpuPlan)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := session.Close(); !errors.Is(err, services.ErrEngineRuntime) {
		t.Fatalf("expected runtime error from teardown, got %v", err)
	}
}

func TestDownloadReportsProgressAndPath(t *testing.T) {
	output := strings.Join([]string{
		`{"event":"download","percent":10}`,
		`{"event":"download","percent":100}`,
		`{"event":"model","path":"/cache/models--Systran--faster-whisper-small"}`,
	}, "\n")
	loader, calls, _ := newTestLoader(t, output, nil)
	var progress []int
	path, err := loader.Download(context.Background(), true, func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != "/cache/models--Systran--faster-whisper-small" {
		t.Fatalf("unexpected path %q", path)
	}
	if len(progress) != 2 || progress[1] != 100 {
		t.Fatalf("unexpected progress %v", progress)
	}
	if !strings.Contains(strings.Join((*calls)[0].args, " "), "download --model small --local-only") {
		t.Fatalf("unexpected download args %v", (*calls)[0].args)
	}
}

func TestDownloadFailureIsModelAcquisition(t *testing.T) {
	output := `{"event":"error","kind":"model","message":"connection refused"}`
	loader, _, _ := newTestLoader(t, output, errors.New("exit status 1"))
	if _, err := loader.Download(context.Background(), false, nil); !errors.Is(err, services.ErrModelAcquisition) {
		t.Fatalf("expected model acquisition error, got %v", err)
	}
}

func TestHelperEnv(t *testing.T) {
	env := HelperEnv([]string{"PATH=/bin", "HF_HUB_OFFLINE=1", "HF_ENDPOINT=https://old"}, "https://new")
	if containsEnv(env, "HF_HUB_OFFLINE=1") {
		t.Fatal("expected offline mode cleared")
	}
	if containsEnv(env, "HF_ENDPOINT=https://old") || !containsEnv(env, "HF_ENDPOINT=https://new") {
		t.Fatalf("expected endpoint replaced, got %v", env)
	}
	if !containsEnv(env, "PATH=/bin") {
		t.Fatal("expected base env preserved")
	}
}

func TestWriteHelperIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := WriteHelper(dir)
	if err != nil {
		t.Fatalf("WriteHelper: %v", err)
	}
	second, err := WriteHelper(dir)
	if err != nil || first != second {
		t.Fatalf("expected stable helper path, got %q %q (%v)", first, second, err)
	}
}

func containsEnv(env []string, want string) bool {
	for _, kv := range env {
		if kv == want {
			return true
		}
	}
	return false
}
