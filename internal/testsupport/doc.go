// Package testsupport holds fixtures shared by package tests: a config
// rooted in a temp dir and WAV files generated with go-audio.
package testsupport
