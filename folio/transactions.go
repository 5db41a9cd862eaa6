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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	PurchaseSuccessful = "Purchase successful"
	SaleSuccessful     = "Sale successful"
)

// ExecuteBuy purchases amount (cash) of an asset at the exact price for
// date. The holding lookup and mutation run as one serializable unit: the
// latest holding at or before date gains quantity amount/price, or a new
// holding dated at the transaction date is created when none exists. The
// mutated row keeps its own date; transactions do not append dated history.
func (s *Service) ExecuteBuy(ctx context.Context, portfolioID, assetID uuid.UUID, amount decimal.Decimal, date time.Time) (*TransactionResult, error) {
	return s.executeTransaction(ctx, portfolioID, assetID, amount, date, false)
}

// ExecuteSell sells amount (cash) of an asset at the exact price for date.
// Fails when no holding exists at or before date, or when the held quantity
// is smaller than amount/price; in both cases the holding is unchanged.
func (s *Service) ExecuteSell(ctx context.Context, portfolioID, assetID uuid.UUID, amount decimal.Decimal, date time.Time) (*TransactionResult, error) {
	return s.executeTransaction(ctx, portfolioID, assetID, amount, date, true)
}

func (s *Service) executeTransaction(ctx context.Context, portfolioID, assetID uuid.UUID, amount decimal.Decimal, date time.Time, sell bool) (*TransactionResult, error) {
	date = NormalizeDate(date)
	subLog := log.With().
		Str("PortfolioID", portfolioID.String()).
		Str("AssetID", assetID.String()).
		Str("Amount", amount.String()).
		Time("Date", date).
		Bool("Sell", sell).Logger()

	if !amount.IsPositive() {
		return nil, fmt.Errorf("transaction amount must be positive, got %s: %w", amount, ErrValidation)
	}

	portfolio, err := s.store.PortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	asset, err := s.store.AssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	// exact price only; there is no latest-price fallback for transactions
	price, err := s.store.PriceOn(ctx, asset.ID, date)
	if err != nil {
		return nil, err
	}

	quantity := amount.Div(price.Price)

	err = s.store.Atomic(ctx, func(txStore Store) error {
		holding, err := txStore.LatestHoldingAtOrBefore(ctx, portfolio.ID, asset.ID, date)
		if err != nil {
			return err
		}

		if sell {
			if holding == nil {
				return fmt.Errorf("no holding of asset %q in portfolio %q at or before %s: %w",
					asset.Name, portfolio.Name, date.Format("2006-01-02"), ErrNotFound)
			}
			if holding.Quantity.LessThan(quantity) {
				return fmt.Errorf("insufficient quantity of asset %q: available %s, requested %s: %w",
					asset.Name, holding.Quantity, quantity, ErrValidation)
			}
			_, err = txStore.UpdateHoldingQuantity(ctx, holding.ID, holding.Quantity.Sub(quantity))
			return err
		}

		if holding == nil {
			_, err = txStore.CreateHolding(ctx, portfolio.ID, asset.ID, date, quantity)
			return err
		}
		_, err = txStore.UpdateHoldingQuantity(ctx, holding.ID, holding.Quantity.Add(quantity))
		return err
	})
	if err != nil {
		subLog.Error().Err(err).Msg("transaction failed")
		return nil, err
	}

	message := PurchaseSuccessful
	if sell {
		message = SaleSuccessful
	}

	result := &TransactionResult{
		Message:     message,
		PortfolioID: portfolio.ID,
		AssetID:     asset.ID,
		Quantity:    quantity,
		Price:       price.Price,
		Total:       amount,
	}
	subLog.Info().Str("Quantity", quantity.String()).Str("Price", price.Price.String()).Msg("transaction completed")
	return result, nil
}
