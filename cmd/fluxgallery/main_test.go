package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/fluxgallery/internal/api"
	"github.com/thesavant42/fluxgallery/internal/config"
)

var testNow = time.Date(2024, 11, 2, 15, 0, 0, 0, time.UTC)

// imageService is a minimal fake of the generation service
type imageService struct {
	mu      sync.Mutex
	images  map[int64]map[string]any
	deleted []int64
	auth    []string

	// listDown makes every listing fail once an image has been deleted
	listDown bool
}

func newImageService(t *testing.T, n int) (*imageService, string) {
	t.Helper()
	s := &imageService{images: map[int64]map[string]any{}}
	for i := 1; i <= n; i++ {
		s.images[int64(i)] = map[string]any{
			"id":                   i,
			"generation_prompt":    fmt.Sprintf("prompt %02d", i),
			"generation_timestamp": testNow.Add(-time.Duration(n-i) * time.Hour).Format(time.RFC3339),
			"imgbb_display_url":    fmt.Sprintf("https://i.example.com/%d.png", i),
			"imgbb_width":          "1024",
			"imgbb_height":         768,
			"imgbb_size":           4096,
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/images", s.list).Methods(http.MethodGet)
	r.HandleFunc("/api/images/{id:[0-9]+}", s.remove).Methods(http.MethodDelete)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return s, srv.URL + "/api"
}

func (s *imageService) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listDown && len(s.deleted) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	out := make([]map[string]any, 0, len(s.images))
	for _, img := range s.images {
		out = append(out, img)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *imageService) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if _, ok := s.images[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(s.images, id)
	s.deleted = append(s.deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func adminToken(t *testing.T, admin bool) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "ada",
		"is_admin": admin,
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

// run executes the CLI with an isolated config dir and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, name := range []string{config.EnvBaseURL, config.EnvToken, config.EnvTokenFile, config.EnvSort, config.EnvPageSize} {
		t.Setenv(name, "")
	}

	a := &app{now: func() time.Time { return testNow }}
	t.Cleanup(a.close)

	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-file", filepath.Join(dir, "test.log")))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListPrintsPage(t *testing.T) {
	_, base := newImageService(t, 45)

	out, err := run(t, "list", "--base-url", base, "--page", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Page 2 of 3")
	assert.Contains(t, out, "Newest First")
	assert.Contains(t, out, "prompt 25")
	assert.Contains(t, out, "prompt 06")
	assert.NotContains(t, out, "prompt 26")
	assert.NotContains(t, out, "prompt 05")
	assert.Contains(t, out, "--page 1 for previous, --page 3 for next")
}

func TestListSearchAndSort(t *testing.T) {
	_, base := newImageService(t, 45)

	out, err := run(t, "list", "--base-url", base, "--search", "PROMPT 4", "--sort", "prompt-desc", "--page", "9")
	require.NoError(t, err)

	assert.Contains(t, out, "Page 1 of 1", "page clamps to the last")
	assert.Contains(t, out, "Showing 6 of 6 matches (45 images)")
	assert.Less(t, strings.Index(out, "prompt 45"), strings.Index(out, "prompt 40"))
	assert.NotContains(t, out, "--page")
}

func TestListNoMatches(t *testing.T) {
	_, base := newImageService(t, 3)

	out, err := run(t, "list", "--base-url", base, "-q", "zebra")
	require.NoError(t, err)
	assert.Contains(t, out, "No images found")
	assert.Contains(t, out, "Try adjusting your search query.")
}

func TestListServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := run(t, "list", "--base-url", srv.URL)
	require.ErrorIs(t, err, api.ErrFetch)
}

func TestExportWritesMarkdown(t *testing.T) {
	_, base := newImageService(t, 25)
	path := filepath.Join(t.TempDir(), "gallery.md")

	out, err := run(t, "export", "--base-url", base, "--search", "prompt 1", "--sort", "oldest", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 10 images to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "**Search:** prompt 1")
	assert.Contains(t, md, "**Sort:** Oldest First")
	assert.Contains(t, md, "**Images:** 10")
	assert.Less(t, strings.Index(md, "| 10 | prompt 10"), strings.Index(md, "| 19 | prompt 19"))
	assert.NotContains(t, md, "prompt 01")
	assert.NotContains(t, md, "prompt 20")
}

func TestDeleteWithToken(t *testing.T) {
	svc, base := newImageService(t, 3)
	token := adminToken(t, true)

	out, err := run(t, "delete", "2", "--yes", "--base-url", base, "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted image 2")

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []int64{2}, svc.deleted)
	assert.Equal(t, []string{"Bearer " + token}, svc.auth)
}

func TestDeleteTokenFromFile(t *testing.T) {
	svc, base := newImageService(t, 3)
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte(adminToken(t, true)+"\n"), 0o600))

	_, err := run(t, "delete", "3", "-y", "--base-url", base, "--token-file", tokenFile)
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []int64{3}, svc.deleted)
}

func TestDeleteRefused(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "signed out",
			args:    []string{"delete", "1", "--yes"},
			wantErr: api.ErrUnauthorized,
		},
		{
			name:    "not admin",
			args:    []string{"delete", "1", "--yes", "--token", "@nonadmin"},
			wantErr: api.ErrUnauthorized,
		},
		{
			name:    "no confirmation off a terminal",
			args:    []string{"delete", "1", "--token", "@admin"},
			wantErr: errNeedConfirmation,
		},
		{
			name:    "bad id",
			args:    []string{"delete", "abc", "--yes", "--token", "@admin"},
			wantMsg: "invalid image id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, base := newImageService(t, 3)
			args := append([]string{}, tt.args...)
			for i, arg := range args {
				switch arg {
				case "@admin":
					args[i] = adminToken(t, true)
				case "@nonadmin":
					args[i] = adminToken(t, false)
				}
			}

			_, err := run(t, append(args, "--base-url", base)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			svc.mu.Lock()
			defer svc.mu.Unlock()
			assert.Empty(t, svc.auth, "no delete request may reach the service")
		})
	}
}

func TestDeleteSucceedsWhenRefreshFails(t *testing.T) {
	svc, base := newImageService(t, 3)
	svc.listDown = true

	out, err := run(t, "delete", "2", "--yes", "--base-url", base, "--token", adminToken(t, true))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted image 2")

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []int64{2}, svc.deleted)
}

func TestDeleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := run(t, "delete", "2", "--yes", "--base-url", srv.URL, "--token", adminToken(t, true))
	require.ErrorIs(t, err, api.ErrNetwork)
	assert.NotContains(t, out, "Deleted image")
}

func TestDeleteMissingImage(t *testing.T) {
	_, base := newImageService(t, 3)

	_, err := run(t, "delete", "99", "--yes", "--base-url", base, "--token", adminToken(t, true))
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestInvalidConfigRejected(t *testing.T) {
	_, err := run(t, "list", "--base-url", "ftp://example.com")
	require.ErrorIs(t, err, config.ErrInvalid)

	_, err = run(t, "list", "--base-url", "http://example.com", "--sort", "sideways")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestGalleryNeedsTerminal(t *testing.T) {
	_, base := newImageService(t, 1)

	_, err := run(t, "--base-url", base)
	require.ErrorIs(t, err, errNoTerminal)
}
