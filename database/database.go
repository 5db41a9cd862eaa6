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

package database

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// PgxIface is the slice of the pool interface the rest of the service needs;
// tests substitute a pgxmock connection through SetPool.
type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
}

var pool PgxIface

// openTransactions is written by every transaction begin and every
// commit/rollback, from concurrent request goroutines
var openTransactions map[string]string
var openTransactionsMutex sync.Mutex

// SetPool replaces the connection pool; call before any transaction is
// started.
func SetPool(myPool PgxIface) {
	openTransactionsMutex.Lock()
	defer openTransactionsMutex.Unlock()

	openTransactions = make(map[string]string)
	pool = myPool
}

// Connect establishes the pgx connection pool from database.url
func Connect(ctx context.Context) error {
	myPool, err := pgxpool.Connect(ctx, viper.GetString("database.url"))
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not connect to pool")
		return err
	}
	if err = myPool.Ping(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not ping database server")
		return err
	}
	SetPool(myPool)
	return nil
}

// LogOpenTransactions writes an INFO log for each open transaction
func LogOpenTransactions() {
	openTransactionsMutex.Lock()
	defer openTransactionsMutex.Unlock()

	for k, v := range openTransactions {
		log.Info().Str("TrxId", k).Str("Caller", v).Msg("open transaction")
	}
}

// Trx begins a read-committed transaction
func Trx(ctx context.Context) (pgx.Tx, error) {
	trx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return track(trx), nil
}

// SerializableTrx begins a serializable transaction. Holding mutations run
// under this isolation level so concurrent buys and sells against the same
// (portfolio, asset) cannot interleave their read-modify-write.
func SerializableTrx(ctx context.Context) (pgx.Tx, error) {
	trx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	return track(trx), nil
}

func track(trx pgx.Tx) pgx.Tx {
	_, file, lineno, ok := runtime.Caller(2)
	caller := fmt.Sprintf("[%v] %s:%d", ok, file, lineno)
	trxID := uuid.New().String()

	openTransactionsMutex.Lock()
	openTransactions[trxID] = caller
	openTransactionsMutex.Unlock()

	return &FolioTx{
		id: trxID,
		tx: trx,
	}
}

func untrack(trxID string) {
	openTransactionsMutex.Lock()
	delete(openTransactions, trxID)
	openTransactionsMutex.Unlock()
}
