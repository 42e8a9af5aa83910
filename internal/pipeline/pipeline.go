// Package pipeline drives one batch end to end: read the source file, build
// a canonical Finding per raw record, reconcile each against the store, and
// report the terminal batch outcome to the acknowledgement sink exactly once.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/builder"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
	"github.com/xkilldash9x/findingsd/internal/reconcile"
)

// Reconciler is the per-record decision collaborator.
type Reconciler interface {
	Reconcile(ctx context.Context, tenantID int64, f *schemas.Finding) (reconcile.Outcome, error)
}

// BatchOutcome aggregates one batch run. Succeeded is true only when the
// source parsed and every record was processed without a fatal error;
// skipped, updated and inserted are all successful per-record outcomes.
type BatchOutcome struct {
	Processed int
	Inserted  int
	Updated   int
	Skipped   int
	Succeeded bool
}

// Driver runs batches. Records within a batch are processed strictly
// sequentially: the reconciler's fetch-then-write sequence is not atomic, so
// intra-batch concurrency would race two records with the same identity.
type Driver struct {
	reconciler Reconciler
	ack        schemas.AckSink
	log        *zap.Logger
}

// New wires a Driver from its collaborators.
func New(reconciler Reconciler, ack schemas.AckSink, logger *zap.Logger) (*Driver, error) {
	if reconciler == nil || ack == nil {
		return nil, fmt.Errorf("cannot initialize pipeline driver with nil collaborators")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		reconciler: reconciler,
		ack:        ack,
		log:        logger.Named("pipeline"),
	}, nil
}

// Run processes one triggered batch and always signals the acknowledgement
// sink exactly once, including on failure. A store or catalog error aborts
// the remaining records; already-reconciled records stay committed, and the
// trigger's redelivery plus idempotent reconciliation (a re-run yields
// SKIPPED) covers recovery.
func (d *Driver) Run(ctx context.Context, job schemas.ParseJobEvent) BatchOutcome {
	var outcome BatchOutcome
	log := d.log.With(
		zap.String("eventId", job.EventID),
		zap.Int64("tenantId", job.Payload.TenantID),
		zap.String("toolType", string(job.Payload.ToolType)))

	defer func() {
		// The ack must go out even when the batch context was cancelled.
		ackCtx := context.WithoutCancel(ctx)
		if err := d.ack.SendAck(ackCtx, job.EventID, outcome.Succeeded); err != nil {
			log.Error("Failed to send batch acknowledgement", zap.Error(err))
		}
	}()

	data, err := os.ReadFile(job.Payload.SourcePath)
	if err != nil {
		log.Error("Failed to read batch source", zap.String("path", job.Payload.SourcePath), zap.Error(err))
		return outcome
	}

	records, err := rawrec.DecodeBatch(data)
	if err != nil {
		log.Error("Failed to parse batch source", zap.String("path", job.Payload.SourcePath), zap.Error(err))
		return outcome
	}

	owner, repo := builder.OwnerRepoFromPath(job.Payload.SourcePath)
	bctx := builder.BatchContext{
		TenantID: job.Payload.TenantID,
		Owner:    owner,
		Repo:     repo,
	}
	log.Info("Processing alert batch",
		zap.Int("records", len(records)),
		zap.String("owner", owner),
		zap.String("repo", repo))

	for _, rec := range records {
		f := builder.Build(job.Payload.ToolType, rec, bctx)

		decision, err := d.reconciler.Reconcile(ctx, job.Payload.TenantID, &f)
		if err != nil {
			log.Error("Reconciliation failed, aborting batch",
				zap.String("alertNumber", f.AlertNumber),
				zap.Int("processed", outcome.Processed),
				zap.Error(err))
			return outcome
		}

		outcome.Processed++
		switch decision {
		case reconcile.OutcomeInserted:
			outcome.Inserted++
		case reconcile.OutcomeUpdated:
			outcome.Updated++
		case reconcile.OutcomeSkipped:
			outcome.Skipped++
		}
	}

	outcome.Succeeded = true
	log.Info("Batch complete",
		zap.Int("processed", outcome.Processed),
		zap.Int("inserted", outcome.Inserted),
		zap.Int("updated", outcome.Updated),
		zap.Int("skipped", outcome.Skipped))
	return outcome
}
