package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/leslieo2/status-lights/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		wantLevel zapcore.Level
	}{
		{
			name: "json configuration",
			config: config.LoggingConfig{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name: "development mode",
			config: config.LoggingConfig{
				Level:       "debug",
				Format:      "console",
				Output:      "stderr",
				Development: true,
			},
			wantLevel: zapcore.DebugLevel,
		},
		{
			name: "invalid log level",
			config: config.LoggingConfig{
				Level:  "invalid",
				Format: "json",
				Output: "stdout",
			},
			wantLevel: zapcore.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger.Level() != tt.wantLevel {
				t.Errorf("Level() = %v, want %v", logger.Level(), tt.wantLevel)
			}
			_ = logger.Sync()
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, err := NewLogger(config.DefaultObservabilityConfig().Logging)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled at info level")
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled after SetLevel")
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if logger.Level() != zapcore.DebugLevel {
		t.Error("a rejected level must leave the current one in place")
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)

	logger := &Logger{Logger: zap.New(core), level: zap.NewAtomicLevel()}
	defer func() { _ = logger.Sync() }()

	logger.Info("state changed", zap.String("component", "API"))

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if logEntry["msg"] != "state changed" {
		t.Errorf("Expected message 'state changed', got %v", logEntry["msg"])
	}
	if logEntry["component"] != "API" {
		t.Errorf("Expected component 'API', got %v", logEntry["component"])
	}
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("discarded")
	if err := logger.SetLevel("warn"); err != nil {
		t.Errorf("SetLevel() error = %v", err)
	}
}
