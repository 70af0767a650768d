package gexlog

import (
	"context"
	"fmt"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/types"
)

// Tee writes to the primary sink and then to each mirror. Only the
// primary's error is returned; mirror failures are logged.
type Tee struct {
	primary interfaces.RecordSink
	mirrors []interfaces.RecordSink
}

var _ interfaces.RecordSink = (*Tee)(nil)

func NewTee(primary interfaces.RecordSink, mirrors ...interfaces.RecordSink) *Tee {
	return &Tee{primary: primary, mirrors: mirrors}
}

func (t *Tee) Write(ctx context.Context, rec types.ExtractionRecord) error {
	if err := t.primary.Write(ctx, rec); err != nil {
		return err
	}
	for _, m := range t.mirrors {
		if err := m.Write(ctx, rec); err != nil {
			logger.Warn(ctx, "Mirror write failed", "sink", fmt.Sprintf("%T", m), "error", err)
		}
	}
	return nil
}
