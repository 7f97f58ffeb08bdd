/*
PURPOSE:
  Orchestrates one artifact sync: list -> log file -> dispatch downloads.

REQUIREMENTS:
  User-specified:
  - The listing is persisted as a line-oriented log before any download.
  - Each indexed kifu archive is downloaded at most once and unzipped.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: Lister, Dispatcher, Downloader, Unzipper

ERROR HANDLING:
  - A failed listing page halts listing only; whatever was logged is still
    dispatched and the listing error is returned afterwards.
  - Download/unzip failures are counted in the Report and do not stop the run.
*/

package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daryltucker/ruversi-tools/internal/config"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

// Syncer wires the artifact pipeline together.
type Syncer struct {
	Config     config.ArtifactConfig
	Lister     *Lister
	Dispatcher *Dispatcher
}

// NewSyncer builds the pipeline for cfg, authenticating with token if set.
func NewSyncer(ctx context.Context, cfg config.ArtifactConfig, token string) (*Syncer, error) {
	lister, err := NewLister(NewAPIClient(ctx, token), cfg)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		Config: cfg,
		Lister: lister,
		Dispatcher: NewDispatcher(
			NewDownloader(nil, token, cfg.ArchiveDir, cfg.Prefix),
			NewUnzipper(cfg.ArchiveDir, cfg.ExtractDir, cfg.ExtractPrefix),
		),
	}, nil
}

// Sync runs the listing and dispatch phases.
func (s *Syncer) Sync(ctx context.Context) (Report, error) {
	if dir := filepath.Dir(s.Config.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Report{}, fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.Create(s.Config.LogFile)
	if err != nil {
		return Report{}, fmt.Errorf("create artifact log: %w", err)
	}
	pages, listErr := s.Lister.List(ctx, f)
	if err := f.Close(); err != nil {
		return Report{}, fmt.Errorf("close artifact log: %w", err)
	}
	if listErr != nil {
		output.Logger.Error("Artifact listing halted", "pages", pages, "error", listErr)
	} else {
		output.Logger.Info("Artifact listing done", "pages", pages, "log", s.Config.LogFile)
	}

	lf, err := os.Open(s.Config.LogFile)
	if err != nil {
		return Report{}, fmt.Errorf("open artifact log: %w", err)
	}
	defer lf.Close()

	rep, err := s.Dispatcher.Dispatch(ctx, lf, NewState(s.Config.TableSize, s.Config.MaxArchives))
	if err != nil {
		return rep, fmt.Errorf("dispatch artifact log: %w", err)
	}
	return rep, listErr
}
