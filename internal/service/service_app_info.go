package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
)

type appInfoService struct {
	version string

	logger *logger.Logger
}

// NewAppInfoService serves cfg.Version with surrounding whitespace removed.
// An empty version, or one spanning several lines, is rejected: it is
// returned verbatim as a text/plain body.
func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}
	if strings.ContainsAny(version, "\r\n") {
		return nil, fmt.Errorf("%w: version must be a single line", ErrVersionIsNotSpecified)
	}

	logger.Info().Str("func", "NewAppInfoService").Str("version", version).Msg("serving api version")

	return &appInfoService{
		version: version,
		logger:  logger,
	}, nil
}

func (s *appInfoService) Version(_ context.Context) string {
	return s.version
}
