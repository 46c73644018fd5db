package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EncryptItem is one log entry queued for concurrent encryption by
// EncryptBatch.
type EncryptItem struct {
	LogName    string
	Data       any
	SearchText string
}

// EncryptBatch runs EncryptAndSend for every item concurrently (bounded
// by batchConcurrency), preserving input order. Unlike DecryptBatch,
// encryption failures are deterministic configuration errors (spec.md
// §7: "the orchestration layer never retries cryptographic failures"),
// so the first one aborts the whole batch.
func (s *Session) EncryptBatch(ctx context.Context, items []EncryptItem) ([]*Entry, error) {
	results := make([]*Entry, len(items))

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

			entry, err := s.EncryptAndSend(item.LogName, item.Data, item.SearchText)
			if err != nil {
				return err
			}
			results[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
