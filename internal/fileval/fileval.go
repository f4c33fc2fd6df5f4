// Package fileval provides pre-parse file validation checks for solidguard.
//
// These checks run before the solidity parser sees a file, so it can fail
// fast on inputs that clearly aren't Solidity source: binary files,
// oversized files, and executable files.
package fileval

import (
	"fmt"
	"os"
)

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); raise --max-file-size to override",
		e.Size, e.MaxSize,
	)
}

// ExecutableFileError is returned when a .sol file has the executable bit set.
type ExecutableFileError struct {
	Path string
}

func (e *ExecutableFileError) Error() string {
	return "unexpected executable Solidity source file"
}

// NotUTF8Error is returned when a file does not appear to be valid UTF-8 text.
type NotUTF8Error struct {
	Path string
}

func (e *NotUTF8Error) Error() string {
	return "file does not appear to be valid UTF-8 text"
}

// ValidateFile runs pre-parse validation checks on a file:
//  1. Maximum size check (when maxSize > 0)
//  2. Executable-bit check (Unix only)
//  3. UTF-8 smoke check
func ValidateFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	if err := checkExecutable(info, path); err != nil {
		return err
	}

	// Use maxSize as the read limit when positive; otherwise read up to 1 MB.
	readLimit := maxSize
	if readLimit <= 0 {
		readLimit = 1 << 20 // 1 MB
	}
	ok, err := LooksUTF8(path, readLimit)
	if err != nil {
		return err
	}
	if !ok {
		return &NotUTF8Error{Path: path}
	}

	return nil
}
