package config

const (
	EngineStreaming = "streaming"
	EngineNeural    = "neural"

	RuntimeFasterWhisper = "faster-whisper"
	RuntimeWhisperCPP    = "whisper-cpp"

	GPUAuto = "auto"
	GPUOn   = "on"
	GPUOff  = "off"
)

const (
	defaultModelDir           = "~/.local/share/subgen/models"
	defaultEngine             = EngineStreaming
	defaultModel              = "small"
	defaultLanguage           = "zh"
	defaultMaxChars           = 20
	defaultShortClipSeconds   = 2.0
	defaultMinContentBytes    = 100
	defaultRuntime            = RuntimeFasterWhisper
	defaultPython             = "python3"
	defaultHFEndpoint         = "https://hf-mirror.com"
	defaultPrimaryComputeType = "int8"
	defaultSafeComputeType    = "int8_float32"
	defaultCPUComputeType     = "int8"
	defaultBeamSize           = 5
	defaultRepetitionPenalty  = 1.3
	defaultNoSpeechThreshold  = 0.4
	defaultStreamingModelName = "vosk-model-small-cn-0.22"
	defaultStreamingModelURL  = "https://alphacephei.com/vosk/models/vosk-model-small-cn-0.22.zip"
	defaultChunkFrames        = 4000
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelDir: defaultModelDir,
		},
		Transcription: Transcription{
			Engine:           defaultEngine,
			Model:            defaultModel,
			Language:         defaultLanguage,
			MaxChars:         defaultMaxChars,
			ShortClipSeconds: defaultShortClipSeconds,
			MinContentBytes:  defaultMinContentBytes,
			VADRetry:         true,
		},
		Neural: Neural{
			Runtime:            defaultRuntime,
			GPU:                GPUAuto,
			Python:             defaultPython,
			HFEndpoint:         defaultHFEndpoint,
			PrimaryComputeType: defaultPrimaryComputeType,
			SafeComputeType:    defaultSafeComputeType,
			CPUComputeType:     defaultCPUComputeType,
			BeamSize:           defaultBeamSize,
			RepetitionPenalty:  defaultRepetitionPenalty,
			NoSpeechThreshold:  defaultNoSpeechThreshold,
		},
		Streaming: Streaming{
			ModelName:   defaultStreamingModelName,
			ModelURL:    defaultStreamingModelURL,
			ChunkFrames: defaultChunkFrames,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
