package telemetry

import (
	"context"
	"fmt"

	"github.com/cafeops/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SQLField is the zap field carrying a full SQL statement. It stays in local
// output and is only exported when full SQL logging is switched on.
const SQLField = "sql"

// LogsConfig holds log export settings
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
	ExportSQL         bool
}

// LogsConfigFrom builds the log export configuration from the telemetry section
func LogsConfigFrom(cfg config.TelemetryConfig) LogsConfig {
	return LogsConfig{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		ServiceName:       cfg.ServiceName,
		Insecure:          cfg.Insecure,
		ExportSQL:         cfg.DBLogFullSQL,
	}
}

// LoggerProvider owns the SDK logger provider used by the zap export core
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	config   LogsConfig
}

// NewLoggerProvider builds the provider. Extra processors (a synchronous one
// in tests) are attached next to the OTLP batch processor. With export disabled
// and no processors the provider stays off.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger, processors ...sdklog.Processor) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger, config: cfg}

	if cfg.Enabled {
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		exporter, err := otlploggrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
		}
		processors = append(processors, sdklog.NewBatchProcessor(exporter))
	}
	if len(processors) == 0 {
		logger.Info("Log export disabled")
		return lp, nil
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, p := range processors {
		opts = append(opts, sdklog.WithProcessor(p))
	}
	lp.provider = sdklog.NewLoggerProvider(opts...)

	if cfg.Enabled {
		global.SetLoggerProvider(lp.provider)
		logger.Info("OpenTelemetry LoggerProvider initialized",
			zap.String("collector_endpoint", cfg.CollectorEndpoint),
			zap.Bool("export_sql", cfg.ExportSQL),
		)
	}
	return lp, nil
}

// IsEnabled reports whether records are exported anywhere
func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.provider != nil
}

// Shutdown flushes pending records and stops export
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	return shutdownProvider(ctx, lp.logger, "logger", lp.provider.Shutdown)
}

// ExportCore returns the zap core feeding the provider. Debug records are
// never exported; level is raised to info when lower. The sql field is
// dropped unless the provider was built with ExportSQL.
func (lp *LoggerProvider) ExportCore(level zapcore.Level) (zapcore.Core, error) {
	if !lp.IsEnabled() {
		return zapcore.NewNopCore(), nil
	}
	if level < zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}

	var core zapcore.Core = otelzap.NewCore(lp.config.ServiceName, otelzap.WithLoggerProvider(lp.provider))
	if !lp.config.ExportSQL {
		core = &dropFieldCore{Core: core, key: SQLField}
	}
	core, err := zapcore.NewIncreaseLevelCore(core, level)
	if err != nil {
		return nil, fmt.Errorf("failed to set log export level: %w", err)
	}
	return core, nil
}

// Tee returns a logger writing to local and export alike
func Tee(local, export zapcore.Core, opts ...zap.Option) *zap.Logger {
	return zap.New(zapcore.NewTee(local, export), opts...)
}

// dropFieldCore removes one field before records reach the wrapped core
type dropFieldCore struct {
	zapcore.Core
	key string
}

func (c *dropFieldCore) With(fields []zapcore.Field) zapcore.Core {
	return &dropFieldCore{Core: c.Core.With(c.strip(fields)), key: c.key}
}

func (c *dropFieldCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *dropFieldCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, c.strip(fields))
}

func (c *dropFieldCore) strip(fields []zapcore.Field) []zapcore.Field {
	out := fields[:0:0]
	for _, f := range fields {
		if f.Key != c.key {
			out = append(out, f)
		}
	}
	return out
}
