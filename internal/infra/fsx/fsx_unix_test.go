//go:build unix

package fsx

import (
	"os"
	"syscall"
	"testing"
)

func TestRename_EXDEVMappedToCrossDeviceError(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	err := Rename("/a/x.jpg", "/b/x.jpg")
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if !IsCrossDevice(err) {
		t.Fatalf("期望 CrossDeviceError，实际 %T %v", err, err)
	}
}

func TestRename_OtherErrorPassthrough(t *testing.T) {
	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	err := Rename("/a/x.jpg", "/b/x.jpg")
	if err == nil || IsCrossDevice(err) {
		t.Fatalf("期望原样透传非 EXDEV 错误，实际 %v", err)
	}
}
