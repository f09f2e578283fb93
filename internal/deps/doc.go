// Package deps checks for external binaries and shared libraries the
// transcription engines need, such as the Python interpreter for the
// faster-whisper helper and the CUDA runtime for GPU backends.
package deps
