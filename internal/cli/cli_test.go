package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/ruversi-tools/internal/config"
)

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestModeHelp(t *testing.T) {
	for _, tc := range []struct {
		name string
		cmd  func() *cobra.Command
		args []string
	}{
		{"runner without mode", NewRunnerCmd, nil},
		{"runner unknown mode", NewRunnerCmd, []string{"bogus"}},
		{"runner help", NewRunnerCmd, []string{"help"}},
		{"summarizer unknown mode", NewSummarizerCmd, []string{"bogus"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.cmd(), "", tc.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "search : ")
			assert.Contains(t, out, "game : ")
		})
	}
}

func TestLearnIsDeprecated(t *testing.T) {
	out, err := execute(t, NewRunnerCmd(), "", "learn")
	require.NoError(t, err)
	assert.Equal(t, "deprecated.\n", out)

	out, err = execute(t, NewSummarizerCmd(), "", "learn")
	require.NoError(t, err)
	assert.Equal(t, "deprecated.\n", out)
}

func TestSummarizerSearch(t *testing.T) {
	log := strings.Join([]string{
		"Begin RFEN:8/8/8/3Aa3/3aA3/8/8/8 b",
		"val:-31.888197 1000 nodes. @@d3[]e3@@f2 10msec",
		"val:-31.888197 1000 nodes. @@d3[]e3@@f2 20msec",
		"val:-31.888197 1000 nodes. @@d3[]e3@@f2 30msec",
		"End RFEN:8/8/8/3Aa3/3aA3/8/8/8 b",
	}, "\n") + "\n"

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	out, err := execute(t, NewSummarizerCmd(), log, "search", "--csv", csvPath)
	require.NoError(t, err)
	assert.Equal(t, "speed: 50.00 nodes/msec\n1000 nodes / 20.00 +- 8.16 msec (10 -- 30)\n", out)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "8/8/8/3Aa3/3aA3/8/8/8 b,1000,3,50.00,20.00,8.16,10,30")
}

func TestSummarizerGame(t *testing.T) {
	log := "total,8,win,4,draw,0,lose,4,balance,0,8,50.00%,R,+0.0\nelapsed,4.000000\n"
	out, err := execute(t, NewSummarizerCmd(), log, "game")
	require.NoError(t, err)
	assert.Equal(t, "500.00 msec/game = 4000.0 / 8\n", out)
}

func TestSummarizerParseFailure(t *testing.T) {
	_, err := execute(t, NewSummarizerCmd(), "val:garbage\n", "search")
	assert.Error(t, err)
}

func TestReadToken(t *testing.T) {
	tok, err := readToken(strings.NewReader("ghp_secret\r\nsecond line\n"))
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", tok)

	tok, err = readToken(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tok)

	tok, err = readToken(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", tok)
}

func TestArtifactSync(t *testing.T) {
	var zipBuf bytes.Buffer
	zw := zip.NewWriter(&zipBuf)
	w, err := zw.Create("N3/kifu.txt")
	require.NoError(t, err)
	fmt.Fprint(w, "moves")
	require.NoError(t, zw.Close())

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/o-jill/ruversi/actions/artifacts":
			assert.Equal(t, "token tok", r.Header.Get("Authorization"))
			items := []map[string]string{}
			if r.URL.Query().Get("page") == "1" {
				items = append(items, map[string]string{
					"name":                 "kifu-N3_20220720154803",
					"archive_download_url": srv.URL + "/dl/3/zip",
				})
			}
			json.NewEncoder(w).Encode(map[string]any{"artifacts": items})
		case "/dl/3/zip":
			w.Write(zipBuf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(config.EnvAPIURL, srv.URL)

	out, err := execute(t, NewSyncCmd(), "tok\n")
	require.NoError(t, err)
	assert.Contains(t, out, "downloaded: 1\n")
	assert.Contains(t, out, "unzipped: 1\n")

	assert.FileExists(t, filepath.Join(dir, "archive", "kifu-N3_20220720154803.zip"))
	assert.FileExists(t, filepath.Join(dir, "kifu", "N3", "kifu.txt"))
	logData, err := os.ReadFile(filepath.Join(dir, "ikkatsu.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), `  "name": "kifu-N3_20220720154803",`)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
