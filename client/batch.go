package client

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/neurallog/go-crypto-client/payload"
)

// batchConcurrency caps how many records a single DecryptBatch call
// decrypts concurrently. Cryptographic operations are CPU-bound (spec.md
// §5); this keeps a large batch from oversubscribing the scheduler.
const batchConcurrency = 8

// BatchItem pairs one encrypted log name with its encrypted payload
// record, the shape DecryptBatch consumes.
type BatchItem struct {
	LogName string
	Payload *payload.Record
}

// BatchResult is one slot of DecryptBatch's output: either a
// successfully decrypted record, or - per spec.md §7's batch error
// contract - a sentinel populated with EncryptedWithVersion and a
// failure message, never an aborted batch.
type BatchResult struct {
	Record *DecryptedRecord

	// Failed is true when this slot is a sentinel, not a real record.
	Failed bool

	FailureReason        string
	EncryptedWithVersion string
}

// DecryptBatch decrypts every item in items concurrently (bounded by
// batchConcurrency), preserving input order in the result slice. A
// decryption failure on one record never aborts the batch: that slot's
// result is a sentinel with Failed=true, EncryptedWithVersion set to the
// record's kekVersion (or "unknown" if the record itself couldn't be
// read), and iteration continues for every other item, exactly as
// spec.md §7's "User-visible failure behavior" requires.
//
// ctx cancellation stops scheduling new work but never discards results
// already computed.
func (s *Session) DecryptBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := s.DecryptReceived(item.LogName, item.Payload, nil)
			if err != nil {
				version := "unknown"
				if item.Payload != nil && item.Payload.KEKVersion != "" {
					version = item.Payload.KEKVersion
				}
				s.logger.Warn("failed to decrypt log entry",
					slog.String("kek_version", version),
					slog.String("error", err.Error()),
				)
				results[i] = BatchResult{
					Failed:               true,
					FailureReason:        "Failed to decrypt log",
					EncryptedWithVersion: version,
				}
				return nil
			}

			results[i] = BatchResult{Record: rec}
			return nil
		})
	}

	// errgroup.Wait only returns a non-nil error for context cancellation
	// here: every per-record cryptographic failure is converted to a
	// sentinel result above, never propagated as a group error.
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
