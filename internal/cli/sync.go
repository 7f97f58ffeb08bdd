/*
PURPOSE:
  Defines the artifact-sync command.
  Lists CI artifacts, logs them and downloads + unzips each kifu archive once.

REQUIREMENTS:
  User-specified:
  - Token is read from the first line of stdin (may be empty).
  - No flags needed for the stock workflow.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/artifact-sync/main.go
  - Calls: internal/artifact.Syncer

ERROR HANDLING:
  - A failed listing page makes the run exit non-zero after dispatching what
    was listed. Download failures only show up in the counters.

USAGE:
  artifact-sync < token.txt
*/

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daryltucker/ruversi-tools/internal/artifact"
)

// NewSyncCmd builds the artifact-sync root command.
func NewSyncCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "artifact-sync",
		Short: "Download and unzip kifu artifacts produced by CI",
		Long: `Lists the repository's GitHub Actions artifacts, records them in a log file,
then downloads every kifu-N<index>_ archive not yet present under archive/
and unzips it into kifu/. The access token is read from the first line of stdin.`,
		Example:       `  artifact-sync < token.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			token, err := readToken(cmd.InOrStdin())
			if err != nil {
				return err
			}

			syncer, err := artifact.NewSyncer(cmd.Context(), cfg.Artifacts, token)
			if err != nil {
				return err
			}

			rep, err := syncer.Sync(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "downloaded: %d\n", rep.Downloaded)
			fmt.Fprintf(out, "unzipped: %d\n", rep.Unzipped)
			if rep.Existing+rep.Failed+rep.Duplicates+rep.Invalid+rep.Rejected > 0 {
				fmt.Fprintf(out, "skipped: %d existing, %d duplicate, %d invalid, %d filtered, %d failed\n",
					rep.Existing, rep.Duplicates, rep.Invalid, rep.Rejected, rep.Failed)
			}
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// ExecuteSync runs artifact-sync.
func ExecuteSync() error {
	return NewSyncCmd().Execute()
}

// readToken returns the first line of r without its line ending.
func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
