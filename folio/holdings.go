// Copyright 2023-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type InitialHoldingStatus int

const (
	HoldingCreated InitialHoldingStatus = iota
	HoldingSkipped
)

// InitialHolding is one outcome of BuildInitialHoldings. Holding is nil when
// Status is HoldingSkipped.
type InitialHolding struct {
	AssetID uuid.UUID
	Status  InitialHoldingStatus
	Holding *Holding
}

// BuildInitialHoldings derives a holding per target weight on date:
// quantity = weight * initial_value / price. A missing price aborts the
// whole batch; a holding that already exists for an asset is skipped with a
// warning and the rest of the batch proceeds.
func (s *Service) BuildInitialHoldings(ctx context.Context, portfolioID uuid.UUID, date time.Time) ([]*InitialHolding, error) {
	date = NormalizeDate(date)
	subLog := log.With().Str("PortfolioID", portfolioID.String()).Time("Date", date).Logger()

	portfolio, err := s.store.PortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.InitialValue == nil || !portfolio.InitialValue.IsPositive() {
		return nil, fmt.Errorf("portfolio %q has no positive initial value: %w", portfolio.Name, ErrValidation)
	}

	weights, err := s.store.WeightsOn(ctx, portfolio.ID, date)
	if err != nil {
		return nil, err
	}
	if len(weights) == 0 {
		subLog.Error().Msg("no weights found for portfolio")
		return nil, fmt.Errorf("no weights for portfolio %q on %s: %w", portfolio.Name, date.Format("2006-01-02"), ErrNotFound)
	}

	outcomes := make([]*InitialHolding, 0, len(weights))
	for _, weight := range weights {
		price, err := s.store.PriceOn(ctx, weight.AssetID, date)
		if err != nil {
			// price gaps invalidate the whole construction, not just one asset
			subLog.Error().Str("AssetID", weight.AssetID.String()).Msg("price missing during holding construction")
			return nil, fmt.Errorf("price missing for asset %s on %s: %w", weight.AssetID, date.Format("2006-01-02"), ErrValidation)
		}

		quantity := weight.Weight.Mul(*portfolio.InitialValue).Div(price.Price)
		holding, err := s.store.CreateHolding(ctx, portfolio.ID, weight.AssetID, date, quantity)
		if err != nil {
			if errors.Is(err, ErrDuplicate) {
				subLog.Warn().Str("AssetID", weight.AssetID.String()).Msg("holding already exists; skipping")
				outcomes = append(outcomes, &InitialHolding{AssetID: weight.AssetID, Status: HoldingSkipped})
				continue
			}
			return nil, err
		}

		outcomes = append(outcomes, &InitialHolding{AssetID: weight.AssetID, Status: HoldingCreated, Holding: holding})
	}

	subLog.Info().Int("NumWeights", len(weights)).Int("NumOutcomes", len(outcomes)).Msg("built initial holdings")
	return outcomes, nil
}

// CreatedHoldings filters an outcome list down to the holdings that were
// actually created.
func CreatedHoldings(outcomes []*InitialHolding) []*Holding {
	holdings := make([]*Holding, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == HoldingCreated {
			holdings = append(holdings, o.Holding)
		}
	}
	return holdings
}
