// Package versioncheck compares the running gosu build against the latest
// GitHub release of the plugin.
package versioncheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// releasesURL is a var so tests can point it at httptest servers.
var releasesURL = "https://api.github.com/repos/gosu-code/claude-plugin/releases/latest"

const (
	checkInterval = 24 * time.Hour
	httpTimeout   = 2 * time.Second

	cacheFileName       = "version_check.json"
	globalConfigDirName = ".config/gosu"

	// UpgradeHint is printed next to the notification.
	UpgradeHint = "go install github.com/gosu-code/claude-plugin/cmd/gosu@latest"
)

type cacheEntry struct {
	LastCheckTime time.Time `json:"last_check_time"`
}

type release struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// Result is the outcome of an explicit version check.
type Result struct {
	Current  string
	Latest   string
	Outdated bool
}

// Check fetches the latest release and compares it with current.
func Check(ctx context.Context, current string) (*Result, error) {
	latest, err := fetchLatestVersion(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Current: current, Latest: latest, Outdated: IsOutdated(current, latest)}, nil
}

// CheckAndNotify runs at most once per day and prints a notice on stderr when
// a newer release exists. Every failure is silent.
func CheckAndNotify(ctx context.Context, cmd *cobra.Command, currentVersion string) {
	if cmd.Hidden || currentVersion == "dev" || currentVersion == "" {
		return
	}

	cachePath, err := cacheFilePath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o750); err != nil {
		return
	}

	cache, err := loadCache(cachePath)
	if err != nil {
		cache = &cacheEntry{}
	}
	if time.Since(cache.LastCheckTime) < checkInterval {
		return
	}

	latest, err := fetchLatestVersion(ctx)

	// Record the attempt even on failure so an offline machine is not retried on every call.
	cache.LastCheckTime = time.Now()
	if saveErr := saveCache(cachePath, cache); saveErr != nil {
		logging.Debug(ctx, "version check: failed to save cache", "error", saveErr.Error())
	}
	if err != nil {
		logging.Debug(ctx, "version check: failed to fetch latest version", "error", err.Error())
		return
	}

	if IsOutdated(currentVersion, latest) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nA newer version of gosu is available: %s (current: %s)\nRun '%s' to update.\n",
			latest, currentVersion, UpgradeHint)
	}
}

func cacheFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, globalConfigDirName, cacheFileName), nil
}

func loadCache(path string) (*cacheEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path under the user's home
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	var cache cacheEntry
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing cache: %w", err)
	}
	return &cache, nil
}

// saveCache writes through a temp file and rename.
func saveCache(path string, cache *cacheEntry) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".version_check_tmp_")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

func fetchLatestVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "gosu-cli")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return parseRelease(body)
}

func parseRelease(body []byte) (string, error) {
	var r release
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("parsing release: %w", err)
	}
	if r.Prerelease {
		return "", errors.New("only prerelease versions available")
	}
	if r.TagName == "" {
		return "", errors.New("empty tag name")
	}
	return r.TagName, nil
}

// IsOutdated reports whether current < latest in semver order.
// A missing "v" prefix is tolerated on either side.
func IsOutdated(current, latest string) bool {
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}
	return semver.Compare(current, latest) < 0
}
