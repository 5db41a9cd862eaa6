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

// Package loader ingests bulk market data from spreadsheets and portfolio
// setup files, re-using the store's creation operations in a loop. Existing
// rows and unparseable cells are skipped with a warning; the load continues.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/folio-vault/folio-api/folio"
)

const (
	weightsSheet = "weights"
	pricesSheet  = "prices"
)

// Loader wires spreadsheet ingestion to the entity store and the holding
// builder
type Loader struct {
	store folio.Store
	svc   *folio.Service
}

func New(store folio.Store, svc *folio.Service) *Loader {
	return &Loader{store: store, svc: svc}
}

// LoadWorkbook reads a workbook with a `weights` sheet (date, asset, one
// column per portfolio) and a `prices` sheet (date, one column per asset)
// and creates the corresponding assets, portfolios, prices, and weights.
func (l *Loader) LoadWorkbook(ctx context.Context, path string) error {
	subLog := log.With().Str("File", path).Logger()
	subLog.Info().Msg("loading data from workbook")

	wb, err := xlsx.OpenFile(path)
	if err != nil {
		subLog.Error().Err(err).Msg("could not open workbook")
		return err
	}

	weights, ok := wb.Sheet[weightsSheet]
	if !ok {
		return fmt.Errorf("workbook has no %q sheet: %w", weightsSheet, folio.ErrValidation)
	}
	prices, ok := wb.Sheet[pricesSheet]
	if !ok {
		return fmt.Errorf("workbook has no %q sheet: %w", pricesSheet, folio.ErrValidation)
	}

	assets, err := l.ensureAssets(ctx, weights)
	if err != nil {
		return err
	}
	portfolios, err := l.ensurePortfolios(ctx, weights)
	if err != nil {
		return err
	}

	if err := l.loadPrices(ctx, prices); err != nil {
		return err
	}
	if err := l.loadWeights(ctx, weights, portfolios, assets); err != nil {
		return err
	}

	subLog.Info().Msg("workbook load completed")
	return nil
}

// ensureAssets creates every asset named in the weights sheet's asset
// column, fetching those that already exist.
func (l *Loader) ensureAssets(ctx context.Context, sheet *xlsx.Sheet) (map[string]*folio.Asset, error) {
	assets := make(map[string]*folio.Asset)
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		cell, err := sheet.Cell(rowIdx, 1)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(cell.Value)
		if name == "" {
			continue
		}
		if _, ok := assets[name]; ok {
			continue
		}

		asset, err := l.store.CreateAsset(ctx, name)
		if errors.Is(err, folio.ErrDuplicate) {
			log.Warn().Str("Asset", name).Msg("asset already exists")
			asset, err = l.store.AssetByName(ctx, name)
		}
		if err != nil {
			return nil, err
		}
		assets[name] = asset
	}

	log.Info().Int("NumAssets", len(assets)).Msg("processed assets")
	return assets, nil
}

// ensurePortfolios creates a portfolio per weights-sheet column after the
// date and asset columns; names are normalized to lowercase.
func (l *Loader) ensurePortfolios(ctx context.Context, sheet *xlsx.Sheet) (map[int]*folio.Portfolio, error) {
	portfolios := make(map[int]*folio.Portfolio)
	for colIdx := 2; colIdx < sheet.MaxCol; colIdx++ {
		cell, err := sheet.Cell(0, colIdx)
		if err != nil {
			return nil, err
		}
		name := strings.ToLower(strings.TrimSpace(cell.Value))
		if name == "" {
			continue
		}

		portfolio, err := l.store.CreatePortfolio(ctx, name, nil)
		if errors.Is(err, folio.ErrDuplicate) {
			log.Warn().Str("Portfolio", name).Msg("portfolio already exists")
			portfolio, err = l.store.PortfolioByName(ctx, name)
		}
		if err != nil {
			return nil, err
		}
		portfolios[colIdx] = portfolio
	}

	log.Info().Int("NumPortfolios", len(portfolios)).Msg("processed portfolios")
	return portfolios, nil
}

// loadPrices walks the prices sheet: header row names the assets, each
// following row is a date plus one price per asset.
func (l *Loader) loadPrices(ctx context.Context, sheet *xlsx.Sheet) error {
	assetByCol := make(map[int]*folio.Asset)
	for colIdx := 1; colIdx < sheet.MaxCol; colIdx++ {
		cell, err := sheet.Cell(0, colIdx)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(cell.Value)
		if name == "" {
			continue
		}
		asset, err := l.store.AssetByName(ctx, name)
		if err != nil {
			log.Warn().Str("Asset", name).Msg("price column for unknown asset; skipping column")
			continue
		}
		assetByCol[colIdx] = asset
	}

	numPrices := 0
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		dateCell, err := sheet.Cell(rowIdx, 0)
		if err != nil {
			return err
		}
		date, err := parseDateCell(dateCell)
		if err != nil {
			log.Warn().Int("Row", rowIdx).Str("Val", dateCell.Value).Msg("invalid date; skipping row")
			continue
		}

		for colIdx, asset := range assetByCol {
			cell, err := sheet.Cell(rowIdx, colIdx)
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(strings.TrimSpace(cell.Value))
			if err != nil {
				log.Warn().Str("Asset", asset.Name).Time("Date", date).Str("Val", cell.Value).Msg("invalid price value")
				continue
			}

			if _, err := l.store.CreatePrice(ctx, asset.ID, date, price); err != nil {
				if errors.Is(err, folio.ErrDuplicate) {
					log.Info().Str("Asset", asset.Name).Time("Date", date).Msg("skipping existing price")
					continue
				}
				if errors.Is(err, folio.ErrValidation) {
					log.Warn().Err(err).Str("Asset", asset.Name).Time("Date", date).Msg("invalid price; skipping")
					continue
				}
				return err
			}
			numPrices++
		}
	}

	log.Info().Int("NumPrices", numPrices).Msg("price creation completed")
	return nil
}

// loadWeights walks the weights sheet: each row holds a date, an asset, and
// one target weight per portfolio column (blank cells mean the portfolio
// does not hold the asset).
func (l *Loader) loadWeights(ctx context.Context, sheet *xlsx.Sheet, portfolios map[int]*folio.Portfolio, assets map[string]*folio.Asset) error {
	numWeights := 0
	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		dateCell, err := sheet.Cell(rowIdx, 0)
		if err != nil {
			return err
		}
		date, err := parseDateCell(dateCell)
		if err != nil {
			log.Warn().Int("Row", rowIdx).Str("Val", dateCell.Value).Msg("invalid date; skipping row")
			continue
		}

		assetCell, err := sheet.Cell(rowIdx, 1)
		if err != nil {
			return err
		}
		asset, ok := assets[strings.TrimSpace(assetCell.Value)]
		if !ok {
			continue
		}

		for colIdx, portfolio := range portfolios {
			cell, err := sheet.Cell(rowIdx, colIdx)
			if err != nil {
				return err
			}
			raw := strings.TrimSpace(cell.Value)
			if raw == "" {
				continue
			}
			weight, err := decimal.NewFromString(raw)
			if err != nil {
				log.Warn().Str("Asset", asset.Name).Str("Portfolio", portfolio.Name).Str("Val", raw).Msg("invalid weight value")
				continue
			}

			if _, err := l.store.CreateWeight(ctx, portfolio.ID, asset.ID, date, weight); err != nil {
				if errors.Is(err, folio.ErrDuplicate) {
					log.Info().Str("Asset", asset.Name).Str("Portfolio", portfolio.Name).Time("Date", date).Msg("skipping existing weight")
					continue
				}
				if errors.Is(err, folio.ErrValidation) {
					log.Warn().Err(err).Str("Asset", asset.Name).Str("Portfolio", portfolio.Name).Msg("invalid weight; skipping")
					continue
				}
				return err
			}
			numWeights++
		}
	}

	log.Info().Int("NumWeights", numWeights).Msg("weight creation completed")
	return nil
}

// parseDateCell handles both excel date-typed cells and plain text dates
// (ISO or day-first)
func parseDateCell(cell *xlsx.Cell) (time.Time, error) {
	if cell.IsTime() {
		t, err := cell.GetTime(false)
		if err == nil {
			return folio.NormalizeDate(t), nil
		}
	}

	raw := strings.TrimSpace(cell.Value)
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return folio.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date %q", raw)
}
