// Package fileutil provides file write helpers for the merge pipeline.
package fileutil

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	xerrors "xliffmerge/core/errors"
)

// Digest returns the hex-encoded BLAKE3 hash of data.
func Digest(data []byte) string {
	b3 := blake3.Sum256(data)
	return hex.EncodeToString(b3[:])
}

// WriteFileIfChanged writes data to path unless the file already holds
// byte-identical content. It reports whether a write happened.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil {
		if Digest(existing) == Digest(data) {
			return false, nil
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, xerrors.NewIO("write", path, err)
	}
	return true, nil
}

// BackupFile writes an xz-compressed copy of path to path+".bak.xz" and
// returns the backup path. A missing source file is not an error; the
// returned path is empty when no backup was made.
func BackupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", xerrors.NewIO("read", path, err)
	}

	backupPath := path + ".bak.xz"
	out, err := os.Create(backupPath)
	if err != nil {
		return "", xerrors.NewIO("create", backupPath, err)
	}
	defer out.Close()

	w, err := xz.NewWriter(out)
	if err != nil {
		return "", xerrors.NewIO("compress", backupPath, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", xerrors.NewIO("compress", backupPath, err)
	}
	if err := w.Close(); err != nil {
		return "", xerrors.NewIO("compress", backupPath, err)
	}
	return backupPath, nil
}

// ReadBackup decompresses an xz backup created by BackupFile.
func ReadBackup(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.NewIO("open", path, err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, xerrors.NewIO("decompress", path, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.NewIO("decompress", path, err)
	}
	return data, nil
}
