package usecase

import (
	"context"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	"github.com/jhoicas/warehouse-ops/internal/domain"
	"github.com/jhoicas/warehouse-ops/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops/internal/domain/repository"
)

// ProductUseCase consulta el catálogo; la edición vive fuera de este servicio.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return uc.found(uc.repo.GetByID(ctx, id))
}

// GetBySKU obtiene un producto por SKU (sin distinguir mayúsculas).
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	return uc.found(uc.repo.GetBySKU(ctx, sku))
}

func (uc *ProductUseCase) found(p *entity.Product, err error) (*dto.ProductResponse, error) {
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}
