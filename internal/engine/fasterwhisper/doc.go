// Package fasterwhisper runs faster-whisper through an embedded Python helper.
//
// Loading a plan starts one helper process in "serve" mode that holds the
// model on the requested device. Each transcription request is a JSON line on
// the helper's stdin; results stream back as JSON-line events (info, segment,
// done, error). Closing the session closes stdin and waits for the process to
// exit, which releases the CUDA context before the next plan loads.
//
// The same helper's "download" subcommand fetches model weights from the
// configured Hugging Face endpoint.
package fasterwhisper
