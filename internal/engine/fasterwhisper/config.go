package fasterwhisper

// Config captures runtime settings for the faster-whisper helper.
type Config struct {
	// Python is the interpreter that has faster-whisper installed.
	Python string
	// Model is a model name or a local CTranslate2 model directory.
	Model string
	// HelperDir is where the embedded helper script is written.
	HelperDir string
	// HFEndpoint overrides the Hugging Face hub endpoint.
	HFEndpoint        string
	BeamSize          int
	RepetitionPenalty float64
	NoSpeechThreshold float64
}

// Helper constants.
const (
	DefaultPython     = "python3"
	HelperFileName    = "subgen_faster_whisper.py"
	maxEventLineBytes = 4 << 20
)
