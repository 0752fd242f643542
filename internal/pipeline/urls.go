package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// LoadURLs reads the scrape targets from path, one URL per line. Blank
// lines and #-comments are dropped. Order and duplicates are preserved
// so a run can report repeated entries as skipped.
func LoadURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("url file %s contains no urls", path)
	}
	return urls, nil
}
