package main

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/cardio/internal/config"
	"github.com/crimson-sun/cardio/internal/output"
	"github.com/crimson-sun/cardio/internal/output/async"
	"github.com/crimson-sun/cardio/internal/output/file"
	"github.com/crimson-sun/cardio/internal/output/multi"
	"github.com/crimson-sun/cardio/internal/output/stdout"
)

// buildAudit assembles the configured audit sinks. "stdout" writes to
// standard output; anything else is a file path. Each sink is drained
// asynchronously.
func buildAudit(cfg config.AuditConfig, logger *slog.Logger) (output.Output, error) {
	if len(cfg.Sinks) == 0 {
		return output.Nop{}, nil
	}

	onError := func(err error) { logger.Warn("audit sink error", "error", err) }

	var outs []output.Output
	for _, sink := range cfg.Sinks {
		var o output.Output
		if sink == "stdout" {
			o = stdout.New(cfg.IncludeInputs, cfg.Pretty)
		} else {
			var opts []file.Option
			if cfg.IncludeInputs {
				opts = append(opts, file.WithIncludeInputs())
			}
			f, err := file.New(sink, opts...)
			if err != nil {
				for _, prev := range outs {
					prev.Close()
				}
				return nil, fmt.Errorf("audit sink %s: %w", sink, err)
			}
			o = f
		}
		outs = append(outs, async.New(o, async.WithOnError(onError)))
	}

	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}
