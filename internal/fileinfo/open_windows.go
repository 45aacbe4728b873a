//go:build windows

package fileinfo

import (
	"fmt"
	"syscall"
	"unsafe"

	apperrors "github.com/koompi/file-manager/internal/errors"
)

var (
	shell32        = syscall.NewLazyDLL("shell32.dll")
	procShellExecW = shell32.NewProc("ShellExecuteW")
)

// OpenWithDefaultApp opens p with its associated application via
// ShellExecuteW. smb:// paths are passed as UNC.
func OpenWithDefaultApp(p string) error {
	native := p
	if IsSMBDisplay(p) {
		host, share, segs, _, _, _ := parseSMBURL(p)
		native = `\\` + host + `\` + share
		for _, s := range segs {
			native += `\` + s
		}
	}

	verb, _ := syscall.UTF16PtrFromString("open")
	file, err := syscall.UTF16PtrFromString(native)
	if err != nil {
		return apperrors.NewExternalCommandError(p, err)
	}

	const swShowNormal = 1
	ret, _, callErr := procShellExecW.Call(0,
		uintptr(unsafe.Pointer(verb)),
		uintptr(unsafe.Pointer(file)),
		0, 0, swShowNormal)
	if ret <= 32 {
		return apperrors.NewExternalCommandError(p, fmt.Errorf("ShellExecuteW code=%d: %v", ret, callErr))
	}
	return nil
}
