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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/folio-vault/folio-api/common"
	"github.com/folio-vault/folio-api/database"
	"github.com/folio-vault/folio-api/folio"
	"github.com/folio-vault/folio-api/loader"
	"github.com/folio-vault/folio-api/store"
)

func init() {
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <workbook.xlsx>",
	Args:  cobra.ExactArgs(1),
	Short: "Load assets, portfolios, prices, and weights from a workbook",
	Long: `Load bulk market data from an xlsx workbook. The workbook must
contain a 'weights' sheet (date, asset, one column per portfolio) and a
'prices' sheet (date, one column per asset). Rows that already exist are
skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		pgStore, err := store.New(viper.GetInt("cache.asset_size"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create store")
		}

		ldr := loader.New(pgStore, folio.NewService(pgStore))
		if err := ldr.LoadWorkbook(ctx, args[0]); err != nil {
			log.Fatal().Err(err).Msg("workbook load failed")
		}
	},
}
