package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
	"github.com/shouni/go-dungeon-buddy/pkg/search"
)

const defaultTimeoutSec = 10

// Config はアプリケーション全体の設定です。
type Config struct {
	BaseURL          string `yaml:"base_url"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	UserAgent        string `yaml:"user_agent"`
	StrictAttributes bool   `yaml:"strict_attributes"`

	// OverallTimeoutSec はコマンド全体の上限秒数です。0 の場合は上限を設けず、
	// リクエスト一件ごとの TimeoutSec のみが適用されます。
	OverallTimeoutSec int `yaml:"overall_timeout_sec"`
}

// Default はデフォルト設定を返します。
func Default() Config {
	return Config{
		BaseURL:    search.DefaultBaseURL,
		TimeoutSec: defaultTimeoutSec,
		UserAgent:  httpclient.UserAgent,
	}
}

// Load は path の YAML をデフォルト設定の上に読み込みます。path が空の場合はデフォルト設定を返します。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}
	return cfg, nil
}

// Normalize はベースURLのスキームを補完し、末尾の "/" を除去した設定を返します。
func (c Config) Normalize() (Config, error) {
	baseURL, err := EnsureScheme(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return Config{}, err
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, c.Validate()
}

// Validate は設定値を検証します。
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("ベースURLが設定されていません")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("ベースURLのパースエラー: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("ベースURLにホストが含まれていません: %s", c.BaseURL)
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("タイムアウトには0以上の値を指定してください: %d", c.TimeoutSec)
	}
	if c.OverallTimeoutSec < 0 {
		return fmt.Errorf("全体タイムアウトには0以上の値を指定してください: %d", c.OverallTimeoutSec)
	}
	return nil
}

// Timeout は HTTP リクエスト一件あたりのタイムアウトを返します。
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// OverallTimeout はコマンド全体の上限を返します。0 は上限なしを意味します。
func (c Config) OverallTimeout() time.Duration {
	return time.Duration(c.OverallTimeoutSec) * time.Second
}

// EnsureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// 既にスキームが存在する場合は、それが http または https であるかをチェックします。
func EnsureScheme(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("URLが空です")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		return rawURL, nil
	}

	return "https://" + rawURL, nil
}
