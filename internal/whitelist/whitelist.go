// Package whitelist reads the game server's whitelist.json. The file is
// owned by the server and only ever mutated by completed jobs (the player
// scripts), so listing it always reflects applied state.
package whitelist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Repository struct {
	path string
}

func NewRepository(repoRoot string) *Repository {
	return &Repository{path: filepath.Join(repoRoot, "data", "whitelist.json")}
}

type entry struct {
	Name string `json:"name"`
}

// List returns the whitelisted player names sorted case-insensitively.
// A missing file is an empty whitelist, not an error.
func (r *Repository) List() ([]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read whitelist file: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse whitelist file: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

func (r *Repository) Count() (int, error) {
	names, err := r.List()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}
