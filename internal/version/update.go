package version

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Current is the running version, overridden at build time with
// -ldflags "-X github.com/studiowebux/authdialog/internal/version.Current=..."
var Current = "0.1.0"

const checkTimeout = 5 * time.Second

// ErrNoReleaseURL is returned by Check when no release endpoint is configured
var ErrNoReleaseURL = errors.New("no release endpoint configured")

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Update describes the latest published release
type Update struct {
	Latest    string
	URL       string
	Available bool // Latest is newer than the running version
}

// Check asks releasesURL, a GitHub style latest-release endpoint, for the
// newest version. An empty releasesURL returns ErrNoReleaseURL without any
// request.
func Check(ctx context.Context, releasesURL, current string) (*Update, error) {
	if releasesURL == "" {
		return nil, ErrNoReleaseURL
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "authdialog/"+current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	return &Update{
		Latest:    latest,
		URL:       rel.HTMLURL,
		Available: latest != "" && compareVersions(latest, strings.TrimPrefix(current, "v")) > 0,
	}, nil
}

// compareVersions orders two dotted versions: -1 when a is older than b,
// 1 when newer, 0 when equal. Pre-release and build suffixes are ignored
// and missing components count as zero.
func compareVersions(a, b string) int {
	x, y := versionCore(a), versionCore(b)
	for i := range max(len(x), len(y)) {
		if c := cmp.Compare(component(x, i), component(y, i)); c != 0 {
			return c
		}
	}
	return 0
}

// versionCore returns the numeric components before any "-" or "+".
// Components that are not numbers are dropped.
func versionCore(v string) []int {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var core []int
	for _, f := range strings.Split(v, ".") {
		if n, err := strconv.Atoi(f); err == nil {
			core = append(core, n)
		}
	}
	return core
}

func component(core []int, i int) int {
	if i < len(core) {
		return core[i]
	}
	return 0
}
