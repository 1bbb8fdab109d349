package organise

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sdejongh/hashtidy/pkg/fingerprint"
	"github.com/sdejongh/hashtidy/pkg/logging"
	"github.com/sdejongh/hashtidy/pkg/models"
	"github.com/sdejongh/hashtidy/pkg/storage"
)

// Organiser converges a single file toward its canonical name. Each file
// is processed independently; the only cross-file interaction is through
// the directory namespace itself.
type Organiser struct {
	backend storage.Backend
	hasher  *fingerprint.Hasher
	logger  logging.Logger

	// now is the fallback timestamp source when a duplicate's metadata
	// cannot be read
	now func() time.Time
}

// NewOrganiser creates a new per-file organiser
func NewOrganiser(backend storage.Backend, hasher *fingerprint.Hasher, logger logging.Logger) *Organiser {
	return &Organiser{
		backend: backend,
		hasher:  hasher,
		logger:  logger,
		now:     time.Now,
	}
}

// Process fingerprints one file and performs the rename-or-delete decision.
// It always returns a terminal FileResult; failures are captured in the
// result rather than propagated, so one file's failure never aborts its
// siblings.
func (o *Organiser) Process(ctx context.Context, entry *models.FileEntry) models.FileResult {
	start := time.Now()

	result := models.FileResult{Entry: entry}
	defer func() { result.Duration = time.Since(start) }()

	sum, bytesHashed, err := o.hasher.Sum(ctx, o.backend, entry.Name)
	result.BytesHashed = bytesHashed
	if err != nil {
		return o.fail(ctx, result, models.PhaseRead, err)
	}

	result.Fingerprint = sum
	canonical := fingerprint.CanonicalName(sum, entry.Ext())
	result.CanonicalPath = filepath.Join(o.backend.Root(), canonical)

	// Already canonical: no filesystem mutation beyond the content read.
	if canonical == entry.Name {
		result.Outcome = models.OutcomeUnchanged
		o.logger.Debug(ctx, "file already organised", logging.Fields{
			"name":        entry.Name,
			"fingerprint": sum,
		})
		return result
	}

	exists, err := o.backend.Exists(ctx, canonical)
	if err != nil {
		return o.fail(ctx, result, models.PhaseRead, err)
	}

	if exists {
		return o.removeDuplicate(ctx, result, entry, canonical)
	}

	if err := o.backend.Rename(ctx, entry.Name, canonical); err != nil {
		// A concurrent claim of the canonical name lands here; the file
		// stays in place and the failure is reported, not retried.
		return o.fail(ctx, result, models.PhaseRename, err)
	}

	result.Outcome = models.OutcomeRenamed
	o.logger.Info(ctx, "organised new file", logging.Fields{
		"name":        entry.Name,
		"canonical":   canonical,
		"fingerprint": sum,
	})
	return result
}

// removeDuplicate deletes a file whose canonical name is already occupied
// and stamps the survivor with the duplicate's last-modified time, so the
// earliest known provenance of the content survives repeated runs.
func (o *Organiser) removeDuplicate(ctx context.Context, result models.FileResult, entry *models.FileEntry, canonical string) models.FileResult {
	modTime := o.now()
	if info, err := o.backend.Stat(ctx, entry.Name); err == nil {
		modTime = info.ModTime
	}

	if err := o.backend.Delete(ctx, entry.Name); err != nil {
		// The duplicate is still on disk and the survivor untouched;
		// re-running reaches this same branch again.
		return o.fail(ctx, result, models.PhaseRemoveDuplicate, err)
	}

	if err := o.backend.Chtimes(ctx, canonical, modTime); err != nil {
		// The duplicate is gone, so this failure is not retryable: the
		// survivor keeps whatever timestamp it already had.
		return o.fail(ctx, result, models.PhaseSetLastModified, err)
	}

	result.Outcome = models.OutcomeDuplicateRemoved
	o.logger.Info(ctx, "removed duplicate file", logging.Fields{
		"name":        entry.Name,
		"canonical":   canonical,
		"fingerprint": result.Fingerprint,
	})
	return result
}

func (o *Organiser) fail(ctx context.Context, result models.FileResult, phase models.Phase, err error) models.FileResult {
	result.Outcome = models.OutcomeErrored
	result.Err = &models.OrganiseError{
		Phase: phase,
		Path:  result.Entry.AbsolutePath,
		Err:   err,
	}
	o.logger.Error(ctx, "failed to organise file", result.Err, logging.Fields{
		"name":  result.Entry.Name,
		"phase": string(phase),
	})
	return result
}
