package worker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadKeywords returns one keyword per non-empty line of r, trimmed, in
// file order. Repeated keywords are kept.
func ReadKeywords(r io.Reader) ([]string, error) {
	var keywords []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}

	return keywords, nil
}

// ReadKeywordsFile reads a keyword list from path.
func ReadKeywordsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadKeywords(f)
}
