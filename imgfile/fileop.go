package imgfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// WriteLines writes one line per entry of lines to dest. Unless overwrite is
// set an existing dest is an error.
func WriteLines(dest string, lines []string, overwrite bool) error {
	slog.Debug("writing", "to", dest, "lines", len(lines))

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	outFile, err := os.OpenFile(dest, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("destination file already exists: %q: %w", dest, err)
	}
	if err != nil {
		return fmt.Errorf("could not open destination file %q: %w", dest, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil {
			slog.Error("could not close destination file", "name", dest, "error", closeErr)
		}
	}()

	w := bufio.NewWriter(outFile)
	for _, line := range lines {
		if _, err = w.WriteString(line); err == nil {
			err = w.WriteByte('\n')
		}
		if err != nil {
			return fmt.Errorf("could not write to %q: %w", dest, err)
		}
	}

	if err = w.Flush(); err != nil {
		return fmt.Errorf("could not write to %q: %w", dest, err)
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination file %q: %w", dest, err)
	}
	return nil
}

// ListImages returns the names of the regular files in dir.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
