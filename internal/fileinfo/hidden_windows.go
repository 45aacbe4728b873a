//go:build windows

package fileinfo

import "syscall"

const fileAttributeHidden = 0x02

func hasHiddenAttribute(path string) bool {
	p, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&fileAttributeHidden != 0
}
