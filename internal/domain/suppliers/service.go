package suppliers

import (
	"context"
	"fmt"
	"strings"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/pkg/logger"
)

type Service struct {
	repo      Repository
	txManager tx.Manager
}

func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

func (s *Service) Add(ctx context.Context, name, contactInfo string) (*Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.NewInvalidInput("supplier name is required").
			WithDetail("field", "name")
	}

	supplier := NewSupplier(name, contactInfo)
	err := tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		return s.repo.Create(ctx, supplier)
	})
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	logger.Info(ctx, "supplier created", "supplier_id", supplier.ID, "name", supplier.Name)
	return supplier, nil
}

func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	err := tx.Run(ctx, s.txManager, func(ctx context.Context) error {
		return s.repo.Delete(ctx, supplierID)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "supplier deleted", "supplier_id", supplierID)
	return nil
}

func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

func (s *Service) List(ctx context.Context) ([]*Supplier, error) {
	return s.repo.List(ctx)
}
