package organise

import (
	"context"

	"github.com/sdejongh/hashtidy/pkg/fingerprint"
	"github.com/sdejongh/hashtidy/pkg/logging"
	"github.com/sdejongh/hashtidy/pkg/models"
	"github.com/sdejongh/hashtidy/pkg/storage"
)

// Scanner discovers candidate files in the target directory
type Scanner struct {
	backend storage.Backend
	logger  logging.Logger
}

// NewScanner creates a new directory scanner
func NewScanner(backend storage.Backend, logger logging.Logger) *Scanner {
	return &Scanner{
		backend: backend,
		logger:  logger,
	}
}

// Discover lists the directory's immediate children and filters them per
// the scan mode. It returns the candidate entries and the number of
// entries the fast-mode filter excluded. The listing is materialized in
// full before any processing begins; a listing failure aborts the run.
func (s *Scanner) Discover(ctx context.Context, mode models.ScanMode) ([]models.FileEntry, int, error) {
	infos, err := s.backend.List(ctx)
	if err != nil {
		return nil, 0, &models.OrganiseError{
			Phase: models.PhaseList,
			Path:  s.backend.Root(),
			Err:   err,
		}
	}

	candidates := make([]models.FileEntry, 0, len(infos))
	excluded := 0

	for _, info := range infos {
		if info.IsDir {
			s.logger.Debug(ctx, "skipping directory entry", logging.Fields{
				"name": info.Name,
			})
			continue
		}

		entry := models.FileEntry{
			Name:         info.Name,
			AbsolutePath: info.Path,
			Size:         info.Size,
			ModTime:      info.ModTime,
		}

		if mode == models.ScanFast {
			// Only a definite match is excluded; an undecodable stem
			// fails open and stays in the scan.
			if fingerprint.ClassifyStem(entry.Stem()) == fingerprint.VerdictCanonical {
				excluded++
				s.logger.Debug(ctx, "skipping already organised file", logging.Fields{
					"name": entry.Name,
				})
				continue
			}
		}

		candidates = append(candidates, entry)
	}

	return candidates, excluded, nil
}
