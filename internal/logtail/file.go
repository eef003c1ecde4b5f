package logtail

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// FileTailer reads trailing lines from a server log file on disk, for
// deployments where the server writes logs/latest.log instead of (or in
// addition to) the container stream.
type FileTailer struct {
	Path string
}

func (t *FileTailer) Tail(ctx context.Context, n int) ([]string, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	// Keep a sliding window of the last n non-blank lines.
	window := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(window) == n {
			copy(window, window[1:])
			window[n-1] = line
		} else {
			window = append(window, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return window, nil
}
