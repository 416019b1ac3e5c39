package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
)

type healthService struct {
	pinger Pinger
	logger *logger.Logger
}

func NewHealthService(pinger Pinger, logger *logger.Logger) HealthService {
	return &healthService{pinger: pinger, logger: logger}
}

// Check fails with ErrStorageUnavailable when the store does not answer.
func (h *healthService) Check(ctx context.Context) error {
	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Str("func", "*healthService.Check").Msg("storage ping failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}
