package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readLine は r から最初の一行を読み込みます。
func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("標準入力の読み取りエラー: %w", err)
		}
		return "", errors.New("検索語が入力されていません")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// readLines は r から空行を除いた全ての行を読み込みます。
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("標準入力の読み取りエラー: %w", err)
	}
	return lines, nil
}

// splitTerms はカンマ区切りの検索語を分割し、空の要素を除きます。
func splitTerms(raw string) []string {
	var terms []string
	for _, term := range strings.Split(raw, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// preview はテキストを最大 n 文字に切り詰めます。
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
