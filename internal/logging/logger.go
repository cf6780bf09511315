// Package logging construye el logger del proceso: archivos JSON
// persistentes más consola legible fuera de producción.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New crea un *zap.Logger que escribe logs/error.log (solo errores),
// logs/combined.log (todo) y, en desarrollo, la consola con colores.
func New(logDir string, production bool) (*zap.Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join(logDir, "error.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	combinedFile, err := os.OpenFile(filepath.Join(logDir, "combined.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEnc := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(jsonEnc, zapcore.Lock(errorFile), zapcore.ErrorLevel),
		zapcore.NewCore(jsonEnc, zapcore.Lock(combinedFile), zapcore.InfoLevel),
	}

	if !production {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc := zapcore.NewConsoleEncoder(devCfg)
		cores = append(cores, zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
