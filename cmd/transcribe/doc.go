// Command transcribe turns a WAV file into an SRT subtitle file.
//
// Usage:
//
//	transcribe <input_audio_path> <output_subtitle_path> [--engine streaming|neural] [--model name]
//
// Progress lines (DOWNLOAD_PROGRESS / TRANS_PROGRESS) are written to stdout
// for a parent process to parse; logs go to stderr. The diagnose, doctor,
// and config subcommands help inspect the host and configuration.
package main
