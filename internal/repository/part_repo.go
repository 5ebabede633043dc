package repository

import (
	"context"

	"gorm.io/gorm"

	"partsdesk/internal/model"
)

// PartRepository defines the data access contract for parts.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type PartRepository interface {
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, id int64) (*model.Part, error)
	// List returns every part in insertion order (id ascending).
	List(ctx context.Context) ([]model.Part, error)
	Update(ctx context.Context, p *model.Part) error

	// Used inside transactions — callers must pass the tx instance
	UpdateTx(tx *gorm.DB, p *model.Part) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id int64) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partRepo) List(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).Order("id ASC").Find(&parts).Error
	return parts, err
}

func (r *partRepo) Update(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *partRepo) UpdateTx(tx *gorm.DB, p *model.Part) error {
	return tx.Save(p).Error
}

func (r *partRepo) DB() *gorm.DB { return r.db }
