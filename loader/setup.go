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

package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

// SetupPortfolios reads a CSV with header `portfolio_name,initial_value`,
// sets each portfolio's initial value, and builds its starting holdings for
// the given date from the latest target weights.
func (l *Loader) SetupPortfolios(ctx context.Context, csvPath string, date time.Time) error {
	subLog := log.With().Str("File", csvPath).Logger()
	subLog.Info().Time("Date", date).Msg("setting up portfolios")

	fh, err := os.Open(csvPath)
	if err != nil {
		subLog.Error().Err(err).Msg("could not open setup file")
		return err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("could not read setup header: %w", err)
	}
	if strings.TrimSpace(header[0]) != "portfolio_name" || strings.TrimSpace(header[1]) != "initial_value" {
		return fmt.Errorf("setup file must have header portfolio_name,initial_value: %w", folio.ErrValidation)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("could not read setup record: %w", err)
		}

		name := strings.ToLower(strings.TrimSpace(record[0]))
		initialValue, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			subLog.Warn().Str("Portfolio", name).Str("Val", record[1]).Msg("invalid initial value; skipping")
			continue
		}

		portfolio, err := l.store.PortfolioByName(ctx, name)
		if err != nil {
			subLog.Warn().Err(err).Str("Portfolio", name).Msg("portfolio not found; skipping")
			continue
		}

		portfolio, err = l.store.SetPortfolioInitialValue(ctx, portfolio.ID, initialValue)
		if err != nil {
			return err
		}

		outcomes, err := l.svc.BuildInitialHoldings(ctx, portfolio.ID, date)
		if err != nil {
			subLog.Error().Err(err).Str("Portfolio", name).Msg("could not build holdings")
			return err
		}

		subLog.Info().
			Str("Portfolio", name).
			Int("NumHoldings", len(folio.CreatedHoldings(outcomes))).
			Msg("portfolio setup complete")
	}

	return nil
}
