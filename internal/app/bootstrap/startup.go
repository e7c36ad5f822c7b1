// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// TaskHive uses it to make sure the upload directory exists, so the
// first upload does not race directory creation with the file server.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %q: %w", appCfg.UploadDir, err)
	}
	logger.Info("upload directory ready", zap.String("dir", appCfg.UploadDir))
	return nil
}
