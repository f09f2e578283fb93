package fasterwhisper

import (
	"context"
	"errors"
	"io"
	"os"

	"subgen/internal/logging"
	"subgen/internal/services"
)

// Download fetches the configured model through the helper and returns its
// local path. With localOnly set the helper only consults the hub cache.
func (l *Loader) Download(ctx context.Context, localOnly bool, progress func(percent int)) (string, error) {
	script, err := WriteHelper(l.cfg.HelperDir)
	if err != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "faster-whisper", "prepare helper", "", err)
	}
	args := []string{script, "download", "--model", l.cfg.Model}
	if localOnly {
		args = append(args, "--local-only")
	}
	proc, err := l.start(ctx, l.cfg.Python, args, HelperEnv(os.Environ(), l.cfg.HFEndpoint))
	if err != nil {
		return "", services.Wrap(services.ErrModelAcquisition, "faster-whisper", "start helper", l.cfg.Python, err)
	}
	_ = proc.Stdin().Close()

	var (
		path   string
		evtErr error
	)
	events := newEventReader(proc.Stdout())
	for {
		ev, err := events.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				evtErr = err
			}
			break
		}
		switch ev.Event {
		case eventDownload:
			if progress != nil {
				progress(int(ev.Percent))
			}
		case eventModel:
			path = ev.Path
		case eventError:
			evtErr = errorFromEvent("download", ev)
		}
	}
	waitErr := proc.Wait()

	switch {
	case evtErr != nil:
		if !errors.Is(evtErr, services.ErrModelAcquisition) {
			evtErr = services.Wrap(services.ErrModelAcquisition, "faster-whisper", "download", "", evtErr)
		}
		return "", evtErr
	case path == "":
		return "", services.Wrap(services.ErrModelAcquisition, "faster-whisper", "download", proc.Stderr(), waitErr)
	}
	if waitErr != nil {
		l.logger.Debug("download helper exited with error after reporting a model", logging.Error(waitErr))
	}
	return path, nil
}
