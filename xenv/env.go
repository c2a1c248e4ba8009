// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"

	"github.com/meterio/meter-auction/meter"
)

// TransactionContext transaction context.
type TransactionContext struct {
	ID         meter.Bytes32
	Origin     meter.Address
	Time       uint64 // execution time, unix seconds
	Expiration uint64
	Nonce      uint64
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s Time:%d Exp:%d Nonce:%d}", ctx.ID.String(), ctx.Origin.String(), ctx.Time, ctx.Expiration, ctx.Nonce)
}
