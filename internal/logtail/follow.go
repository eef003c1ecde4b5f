package logtail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follower streams lines appended to a log file. Each Follow call tracks its
// own offset, starting at the current end of file.
type Follower struct {
	Path string
}

// Follow emits appended lines until ctx is cancelled. The returned channel
// is closed when following stops.
func (f *Follower) Follow(ctx context.Context) (<-chan string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to seek log file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(f.Path); err != nil {
		watcher.Close()
		file.Close()
		return nil, fmt.Errorf("failed to watch log file: %w", err)
	}

	out := make(chan string, 64)
	go func() {
		defer close(out)
		defer watcher.Close()
		defer file.Close()

		reader := bufio.NewReader(file)
		partial := ""
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == 0 {
					// Rotation or truncation: start over from the top of
					// the new file contents.
					if event.Op&(fsnotify.Remove|fsnotify.Rename|fsnotify.Create) != 0 {
						file.Seek(0, io.SeekStart)
						reader.Reset(file)
						partial = ""
					}
					continue
				}
				partial = drain(reader, partial, out, ctx)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}

// drain reads whatever is available, emitting complete lines and carrying an
// unterminated trailing fragment over to the next write event.
func drain(reader *bufio.Reader, partial string, out chan<- string, ctx context.Context) string {
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil {
			return partial + chunk
		}
		line := strings.TrimRight(partial+chunk, "\r\n")
		partial = ""
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return ""
		}
	}
}
