package scenario

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Empty times an empty Execute: the floor the harness itself adds to
// every iteration.
func Empty() Scenario {
	return Func("baseline/empty", func() error { return nil })
}

// Log times one structured log call through a JSON encoder into
// io.Discard, so encoding is paid for but no I/O is.
func Log() Scenario {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(io.Discard),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)
	return Func("baseline/log", func() error {
		logger.Info("test")
		return nil
	})
}
