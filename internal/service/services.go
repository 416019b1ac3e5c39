package service

import (
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/crypto"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	AppInfoService AppInfoService
	HealthService  HealthService
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	vault, err := crypto.NewPasswordVault(cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("error creating password vault: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenCodec(cfg, nil)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, vault, tokens, cfg, logger),
		UserService:    NewUserService(storages.UserRepository, vault, validators.NewUserValidator(), utils.NewUUIDGenerator(), nil, logger),
		AppInfoService: appInfoService,
		HealthService:  NewHealthService(storages, logger),
	}, nil
}
