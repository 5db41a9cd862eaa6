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

package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/folio-vault/folio-api/common"
	"github.com/folio-vault/folio-api/database"
	"github.com/folio-vault/folio-api/folio"
	"github.com/folio-vault/folio-api/loader"
	"github.com/folio-vault/folio-api/store"
)

var setupDate string

func init() {
	setupCmd.Flags().StringVar(&setupDate, "date", "", "Date to build holdings for, formatted YYYY-MM-DD (default today)")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup <portfolios.csv>",
	Args:  cobra.ExactArgs(1),
	Short: "Set portfolio initial values and build starting holdings",
	Long: `Read a CSV with header portfolio_name,initial_value; set each
portfolio's initial value and derive its starting holdings for the given
date from the latest target weights.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		date := folio.NormalizeDate(time.Now())
		if setupDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", setupDate)
			if err != nil {
				log.Fatal().Str("Date", setupDate).Msg("date must be formatted YYYY-MM-DD")
			}
		}

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		pgStore, err := store.New(viper.GetInt("cache.asset_size"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create store")
		}

		ldr := loader.New(pgStore, folio.NewService(pgStore))
		if err := ldr.SetupPortfolios(ctx, args[0], date); err != nil {
			log.Fatal().Err(err).Msg("portfolio setup failed")
		}
	},
}
