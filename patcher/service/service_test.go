package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/viant/patch-toolbox/patcher/rule"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "rule", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func newTestService(t *testing.T, URL, content string) (*Service, afs.Service) {
	t.Helper()
	fs := afs.New()
	if content != "" {
		require.NoError(t, fs.Upload(context.Background(), URL, 0o644, strings.NewReader(content)))
	}
	svc := NewService(&Config{URL: URL})
	return svc, fs
}

func download(t *testing.T, fs afs.Service, URL string) string {
	t.Helper()
	data, err := fs.DownloadWithURL(context.Background(), URL)
	require.NoError(t, err)
	return string(data)
}

func TestService_Patch(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/patch/controller/ParkingLotController.java"
	svc, fs := newTestService(t, URL, readFixture(t, "ParkingLotController.java"))

	out, err := svc.Patch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMessage, out.Message)
	assert.True(t, out.Changed)
	assert.True(t, out.Written)
	assert.Empty(t, out.Unmatched)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, readFixture(t, "ParkingLotController.patched.java"), download(t, fs, URL))

	out, err = svc.Patch(ctx, &PatchInput{URL: URL})
	require.NoError(t, err)
	assert.False(t, out.Changed, "second run must not change the file")
	assert.Equal(t, DefaultMessage, out.Message)
	assert.Equal(t, readFixture(t, "ParkingLotController.patched.java"), download(t, fs, URL))
}

func TestService_Patch_NoPatterns(t *testing.T) {
	URL := "mem://localhost/patch/other/Other.java"
	content := "public class Other {\n    int x;\n}\n"
	svc, fs := newTestService(t, URL, content)

	out, err := svc.Patch(context.Background(), &PatchInput{})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.True(t, out.Written)
	assert.Equal(t, DefaultMessage, out.Message)
	assert.Len(t, out.Unmatched, 3)
	assert.Equal(t, content, download(t, fs, URL))
}

func TestService_Patch_Missing(t *testing.T) {
	svc := NewService(&Config{URL: filepath.Join(t.TempDir(), "missing", "Controller.java")})
	out, err := svc.Patch(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, out)
}

type failingUploadFS struct {
	afs.Service
}

func (f *failingUploadFS) Upload(_ context.Context, URL string, _ os.FileMode, _ io.Reader, _ ...storage.Option) error {
	return errors.New("read-only storage: " + URL)
}

func TestService_Patch_Unwritable(t *testing.T) {
	var testCases = []struct {
		description string
		setup       func(t *testing.T) *Service
	}{
		{
			description: "storage rejects upload",
			setup: func(t *testing.T) *Service {
				URL := "mem://localhost/patch/readonly/ParkingLotController.java"
				svc, fs := newTestService(t, URL, readFixture(t, "ParkingLotController.java"))
				svc.SetFS(&failingUploadFS{Service: fs})
				return svc
			},
		},
		{
			description: "read-only local directory",
			setup: func(t *testing.T) *Service {
				if os.Geteuid() == 0 {
					t.Skip("root ignores file permissions")
				}
				dir := t.TempDir()
				location := filepath.Join(dir, "ParkingLotController.java")
				require.NoError(t, os.WriteFile(location, []byte(readFixture(t, "ParkingLotController.java")), 0o444))
				// upload replaces the file, so the directory has to refuse it
				require.NoError(t, os.Chmod(dir, 0o555))
				t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
				return NewService(&Config{URL: location})
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			svc := testCase.setup(t)
			out, err := svc.Patch(context.Background(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to write")
			assert.Nil(t, out, "no message on write failure")
		})
	}
}

func TestService_Patch_Strict(t *testing.T) {
	URL := "mem://localhost/patch/strict/Other.java"
	content := "public static class ExitVehicleRequest { private String ticketNumber; }"
	svc, fs := newTestService(t, URL, content)

	_, err := svc.Patch(context.Background(), &PatchInput{Strict: true})
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), rule.ReserveSpotRequest)
	assert.Equal(t, content, download(t, fs, URL), "strict failure must not write")
}

func TestService_Patch_DryRun(t *testing.T) {
	URL := "mem://localhost/patch/dry/ParkingLotController.java"
	content := readFixture(t, "ParkingLotController.java")
	svc, fs := newTestService(t, URL, content)

	out, err := svc.Patch(context.Background(), &PatchInput{DryRun: true})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.False(t, out.Written)
	assert.Empty(t, out.Message)
	assert.Contains(t, out.Diff, "+        public String getTicketNumber() { return ticketNumber; }")
	assert.Equal(t, content, download(t, fs, URL))
}

func TestService_Patch_Backup(t *testing.T) {
	URL := "mem://localhost/patch/backup/ParkingLotController.java"
	content := readFixture(t, "ParkingLotController.java")
	svc, fs := newTestService(t, URL, content)

	out, err := svc.Patch(context.Background(), &PatchInput{Backup: true})
	require.NoError(t, err)
	assert.Equal(t, URL+".orig", out.BackupURL)
	assert.Equal(t, content, download(t, fs, out.BackupURL))
	assert.Equal(t, readFixture(t, "ParkingLotController.patched.java"), download(t, fs, URL))
}

func TestService_Patch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	location := filepath.Join(dir, "ParkingLotController.java")
	require.NoError(t, os.WriteFile(location, []byte(readFixture(t, "ParkingLotController.java")), 0o644))

	svc := NewService(&Config{URL: location})
	out, err := svc.Patch(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, out.Written)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, readFixture(t, "ParkingLotController.patched.java"), string(data))
}

func TestService_Preview(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.Preview(context.Background(), &PreviewInput{Text: "public static class ParkingLotStatus { int a; }"})
	require.NoError(t, err)
	assert.Equal(t, rule.ParkingLotStatusBody, out.Text)
	assert.True(t, out.Changed)
	assert.Equal(t, []string{rule.ExitVehicleRequest, rule.ReserveSpotRequest}, out.Unmatched)
	assert.Contains(t, out.Diff, "-public static class ParkingLotStatus { int a; }")
}

func TestService_LoadRules(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	rulesURL := "mem://localhost/patch/rules/custom.yaml"
	require.NoError(t, fs.Upload(ctx, rulesURL, 0o644, strings.NewReader("rules:\n  - name: upper\n    pattern: 'foo'\n    replacement: 'FOO'\n")))

	svc := NewService(nil)
	require.NoError(t, svc.LoadRules(ctx, rulesURL))
	patched, outcomes := svc.PatchText(ctx, "foo bar foo")
	assert.Equal(t, "FOO bar FOO", patched)
	assert.Equal(t, []rule.Outcome{{Name: "upper", Matched: true, Count: 2}}, outcomes)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteRules(&buf))
	assert.Equal(t, "upper\tfoo\n", buf.String())
	assert.Len(t, svc.ListRules(ctx, nil).Rules, 1)
}

func TestService_VerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(&Config{Verbose: true})
	svc.SetLogger(log.New(&buf, "", 0))
	ctx := WithRunID(context.Background(), "run-1")
	svc.PatchText(ctx, "nothing to patch")
	logged := buf.String()
	assert.Contains(t, logged, "[PATCH] run=run-1 ns=default rule=ExitVehicleRequest matched=false")
	assert.Equal(t, 3, strings.Count(logged, "\n"))
}
