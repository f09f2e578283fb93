// Package models makes sure a recognizer model is present on disk before a
// run starts.
//
// Vosk models are fetched over HTTP as a zip archive and extracted into the
// model directory. faster-whisper models are resolved through the helper's
// hub download with a local-cache fallback. whisper.cpp models must already
// exist. Every failure here is tagged services.ErrModelAcquisition and ends
// the run.
package models
