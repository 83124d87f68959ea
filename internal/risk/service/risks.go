package service

import (
	"context"
	"strconv"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

type RiskInput struct {
	Name        string `label:"Name" validate:"min=1"`
	Description string `label:"Description" validate:"min=1"`
	Probability string `label:"Probability" validate:"level"`
	Impact      string `label:"Impact" validate:"level"`
	ProviderID  int64  `label:"Provider id" validate:"gt=0"`
}

// RiskUpdate carries the fields an update may change. Nil means unchanged.
type RiskUpdate struct {
	Name        *string `label:"Name" validate:"omitnil,min=1"`
	Description *string `label:"Description" validate:"omitnil,min=1"`
	Probability *string `label:"Probability" validate:"omitnil,level"`
	Impact      *string `label:"Impact" validate:"omitnil,level"`
	ProviderID  *int64  `label:"Provider id" validate:"omitnil,gt=0"`
}

// RiskService manages risks. Listing and single lookups go through the
// filter composer.
type RiskService struct {
	Store    store.Store
	Composer *FilterComposer
}

// Create records a risk and relates it to its creator.
func (s *RiskService) Create(ctx context.Context, creatorID int64, in RiskInput) (domain.Risk, error) {
	if err := check(in); err != nil {
		return domain.Risk{}, err
	}
	if _, err := s.Store.Providers().GetProviderByID(ctx, in.ProviderID); err != nil {
		return domain.Risk{}, notFound(err, "Provider not found")
	}
	if _, err := s.Store.Users().GetUserByID(ctx, creatorID); err != nil {
		return domain.Risk{}, notFound(err, "User not found")
	}

	var id int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		id, err = tx.Risks().CreateRisk(ctx, domain.Risk{
			ProviderID:  &in.ProviderID,
			Name:        in.Name,
			Description: in.Description,
			Probability: domain.Classification(in.Probability),
			Impact:      domain.Classification(in.Impact),
		})
		if err != nil {
			return err
		}
		return tx.Risks().LinkUser(ctx, id, creatorID)
	})
	if err != nil {
		return domain.Risk{}, err
	}

	slogx.FromContext(ctx).Info("risk created", "risk_id", id, "user_id", creatorID)
	return s.Store.Risks().GetRiskByID(ctx, id)
}

func (s *RiskService) Get(ctx context.Context, id int64) (domain.Risk, error) {
	risks, err := s.Composer.Resolve(ctx, Filters{FilterID: strconv.FormatInt(id, 10)})
	if err != nil {
		return domain.Risk{}, err
	}
	return risks[0], nil
}

// List returns the risks matching a filter expression. An empty expression
// lists every risk.
func (s *RiskService) List(ctx context.Context, expr string) ([]domain.Risk, error) {
	return s.Composer.Filter(ctx, expr)
}

func (s *RiskService) Update(ctx context.Context, id int64, upd RiskUpdate) (domain.Risk, error) {
	if upd.Name == nil && upd.Description == nil && upd.Probability == nil &&
		upd.Impact == nil && upd.ProviderID == nil {
		return domain.Risk{}, errNoValidParameters
	}

	risk, err := s.Get(ctx, id)
	if err != nil {
		return domain.Risk{}, err
	}
	if err := check(upd); err != nil {
		return domain.Risk{}, err
	}

	if upd.Name != nil {
		risk.Name = *upd.Name
	}
	if upd.Description != nil {
		risk.Description = *upd.Description
	}
	if upd.Probability != nil {
		risk.Probability = domain.Classification(*upd.Probability)
	}
	if upd.Impact != nil {
		risk.Impact = domain.Classification(*upd.Impact)
	}
	if upd.ProviderID != nil {
		if _, err := s.Store.Providers().GetProviderByID(ctx, *upd.ProviderID); err != nil {
			return domain.Risk{}, notFound(err, "Provider not found")
		}
		risk.ProviderID = upd.ProviderID
	}

	if err := s.Store.Risks().UpdateRisk(ctx, risk); err != nil {
		return domain.Risk{}, notFound(err, "Risk not found")
	}
	return s.Store.Risks().GetRiskByID(ctx, id)
}

func (s *RiskService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return invalid("Invalid id")
	}
	return notFound(s.Store.Risks().DeleteRisk(ctx, id), "Risk not found")
}
