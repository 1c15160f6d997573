package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/mapper"
	"github.com/emiflair/wazhop/internal/model"
	"github.com/emiflair/wazhop/internal/repository/contract"
	"github.com/emiflair/wazhop/internal/repository/specification"
)

type ReferralRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferralMapper
}

func NewReferralRepository(db *gorm.DB) contract.ReferralRepository {
	return &ReferralRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferralMapper(),
	}
}

func (r *ReferralRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Referral record implementation

func (r *ReferralRepositoryImpl) CreateRecord(ctx context.Context, record *entity.ReferralRecord) error {
	m := r.mapper.RecordToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.RecordToEntity(m)
	return nil
}

func (r *ReferralRepositoryImpl) UpdateRecord(ctx context.Context, record *entity.ReferralRecord) error {
	m := r.mapper.RecordToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.RecordToEntity(m)
	return nil
}

func (r *ReferralRepositoryImpl) FindOneRecord(ctx context.Context, specs ...specification.Specification) (*entity.ReferralRecord, error) {
	var m model.ReferralRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RecordToEntity(&m), nil
}

func (r *ReferralRepositoryImpl) FindAllRecords(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferralRecord, error) {
	var models []*model.ReferralRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ReferralRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RecordToEntity(m)
	}
	return entities, nil
}

// Payout request implementation

func (r *ReferralRepositoryImpl) CreatePayout(ctx context.Context, payout *entity.PayoutRequest) error {
	m := r.mapper.PayoutToModel(payout)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*payout = *r.mapper.PayoutToEntity(m)
	return nil
}

func (r *ReferralRepositoryImpl) FindOnePayout(ctx context.Context, specs ...specification.Specification) (*entity.PayoutRequest, error) {
	var m model.PayoutRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PayoutToEntity(&m), nil
}

func (r *ReferralRepositoryImpl) FindAllPayouts(ctx context.Context, specs ...specification.Specification) ([]*entity.PayoutRequest, error) {
	var models []*model.PayoutRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PayoutRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PayoutToEntity(m)
	}
	return entities, nil
}
