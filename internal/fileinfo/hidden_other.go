//go:build !windows

package fileinfo

func hasHiddenAttribute(string) bool { return false }
