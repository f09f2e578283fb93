// Package progress carries coarse progress signals from model downloads and
// transcription attempts to whoever supervises the process.
//
// Reporter is the single sink interface. LineWriter speaks the stdout line
// protocol (DOWNLOAD_PROGRESS: N / TRANS_PROGRESS: N), Bar draws a terminal
// bar on stderr, and Multi fans one signal out to several sinks. Tracker sits
// in front of a sink for one attempt and keeps the stream clamped and
// monotonic.
package progress
