//go:build !windows

package fileinfo

import (
	"errors"
	"os/exec"
	"runtime"

	apperrors "github.com/koompi/file-manager/internal/errors"
)

// openerCandidates lists default-handler commands in preference order.
func openerCandidates(target string) [][]string {
	if runtime.GOOS == "darwin" {
		return [][]string{{"open", target}}
	}
	return [][]string{
		{"xdg-open", target},
		{"gio", "open", target},
		{"gvfs-open", target},
		{"kde-open", target},
	}
}

// OpenWithDefaultApp hands p to the desktop's default handler. The
// handler is started, not waited for.
func OpenWithDefaultApp(p string) error {
	var lastErr error
	for _, args := range openerCandidates(p) {
		bin, lookErr := exec.LookPath(args[0])
		if lookErr != nil {
			continue
		}
		cmd := exec.Command(bin, args[1:]...)
		if err := cmd.Start(); err != nil {
			lastErr = err
			continue
		}
		go cmd.Wait()
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no suitable opener found (xdg-open/gio/kde-open)")
	}
	return apperrors.NewExternalCommandError(p, lastErr)
}
