// Package configfile writes retrieved running configurations to disk.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Extension is appended to every config file.
const Extension = ".cvpcfg"

// Name returns the file name for a device config: <hostname>-<timestamp>.cvpcfg
func Name(hostname, timestamp string) string {
	return hostname + "-" + timestamp + Extension
}

// Writer stores configs under Dir (the working directory when empty).
type Writer struct {
	Dir string
}

// Write creates or truncates the config file and writes text verbatim.
// The write is not atomic.
func (w *Writer) Write(hostname, timestamp, text string) (string, error) {
	path := Name(hostname, timestamp)
	if w.Dir != "" {
		path = filepath.Join(w.Dir, path)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write config for %s: %w", hostname, err)
	}
	return path, nil
}
