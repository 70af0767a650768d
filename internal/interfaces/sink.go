package interfaces

import (
	"context"

	"spx-gex/internal/types"
)

type RecordSink interface {
	Write(ctx context.Context, rec types.ExtractionRecord) error
}
