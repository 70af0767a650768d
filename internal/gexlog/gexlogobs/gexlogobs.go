package gexlogobs

import (
	"context"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/trace"
	"spx-gex/internal/types"
)

type observableSink struct {
	sink interfaces.RecordSink
	name string
}

var _ interfaces.RecordSink = (*observableSink)(nil)

func Wrap(sink interfaces.RecordSink, name string) interfaces.RecordSink {
	return &observableSink{
		sink: sink,
		name: name,
	}
}

func (obs *observableSink) Write(ctx context.Context, rec types.ExtractionRecord) error {
	ctx, span := trace.StartSpan(ctx, "gexlog.Write")
	defer span.End()

	logger.Debug(ctx, "Appending record",
		"sink", obs.name,
		"date", rec.Date(),
		"symbol", rec.Symbol,
	)

	if err := obs.sink.Write(ctx, rec); err != nil {
		logger.ErrorWithErr(ctx, "Record append failed", err,
			"sink", obs.name,
			"date", rec.Date(),
			"symbol", rec.Symbol,
		)
		return err
	}

	logger.Info(ctx, "Record appended",
		"sink", obs.name,
		"date", rec.Date(),
		"symbol", rec.Symbol,
		"total_gamma", rec.TotalGamma,
	)
	return nil
}
