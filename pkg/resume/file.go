package resume

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

var allowedExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AllowedType reports whether a file is a supported resume format judging
// only by its name and declared MIME type.
func AllowedType(name, contentType string) bool {
	if _, ok := allowedExt[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, m := range allowedExt {
		if ct == m {
			return true
		}
	}
	return false
}

// ContentTypeFor guesses a MIME type from the file extension.
func ContentTypeFor(name string) string {
	if ct, ok := allowedExt[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// OpenFile builds a file handle for a path on disk.
func OpenFile(path string) (remote.File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return remote.File{}, err
	}
	if st.IsDir() {
		return remote.File{}, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return remote.File{
		Name:        name,
		ContentType: ContentTypeFor(name),
		Size:        st.Size(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// BytesFile wraps in-memory content as a file handle.
func BytesFile(name, contentType string, data []byte) remote.File {
	if contentType == "" {
		contentType = ContentTypeFor(name)
	}
	return remote.File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
