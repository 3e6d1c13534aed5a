package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"same version", "0.4.2", "0.4.2", 0},
		{"patch upgrade", "0.4.3", "0.4.2", 1},
		{"patch downgrade", "0.4.1", "0.4.2", -1},
		{"minor upgrade", "0.5.0", "0.4.2", 1},
		{"minor downgrade", "0.3.9", "0.4.2", -1},
		{"major upgrade", "1.0.0", "0.4.2", 1},
		{"major downgrade", "0.4.2", "1.0.0", -1},
		{"multi-digit patch", "0.4.100", "0.4.99", 1},
		{"missing patch is zero", "1.0", "1.0.0", 0},
		{"different lengths", "1.0", "0.4.2", 1},
		{"dev build ahead", "0.4.3-dev", "0.4.2", 1},
		{"pre-release same base", "0.4.2-rc1", "0.4.2", 0},
		{"build metadata", "0.4.3+build7", "0.4.2", 1},
		{"both pre-release", "0.4.3-beta", "0.4.3-alpha", 0},
		{"non-numeric component dropped", "1.x.2", "1.2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareVersions(tt.a, tt.b); got != tt.want {
				t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCheck_NoReleaseURL(t *testing.T) {
	_, err := Check(context.Background(), "", "0.1.0")
	require.ErrorIs(t, err, ErrNoReleaseURL)
}

func TestCheck(t *testing.T) {
	var userAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"tag_name":"v0.2.0","html_url":"https://example.test/releases/v0.2.0"}`))
	}))
	defer ts.Close()

	update, err := Check(context.Background(), ts.URL, "v0.1.0")
	require.NoError(t, err)
	require.True(t, update.Available)
	require.Equal(t, "0.2.0", update.Latest)
	require.Equal(t, "https://example.test/releases/v0.2.0", update.URL)
	require.Equal(t, "authdialog/v0.1.0", userAgent)

	update, err = Check(context.Background(), ts.URL, "0.2.0")
	require.NoError(t, err)
	require.False(t, update.Available)
}

func TestCheck_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := Check(context.Background(), ts.URL, "0.1.0")
	require.Error(t, err)
}
