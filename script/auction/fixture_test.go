// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/require"
)

const (
	T0            = uint64(1_000_000)
	initialFunds  = uint64(1_000_000_000)
	testWindow    = uint64(300)
	testExtension = uint64(600)
)

var (
	authority    = meter.BytesToAddress([]byte("authority"))
	feeRecipient = meter.BytesToAddress([]byte("fee-recipient"))
	nftContract  = meter.BytesToAddress([]byte("nft-contract"))
	settlement   = meter.BytesToAddress([]byte("settlement"))

	alice = meter.BytesToAddress([]byte("alice"))
	bob   = meter.BytesToAddress([]byte("bob"))
	carol = meter.BytesToAddress([]byte("carol"))
	dave  = meter.BytesToAddress([]byte("dave"))
)

type fixture struct {
	t           *testing.T
	st          *state.State
	auction     *Auction
	now         uint64
	seq         uint64
	transferrer setypes.Transferrer
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithMinter(t, nil)
}

func newFixtureWithMinter(t *testing.T, minter Minter) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	builtin.Params.Native(st).Apply(&params.Settings{
		FeeRecipient:       feeRecipient,
		BuyerFeeRate:       20,
		SellerFeeRate:      50,
		SnipingWindow:      testWindow,
		TimeExtension:      testExtension,
		NFTContract:        nftContract,
		SettlementContract: settlement,
		Authority:          authority,
	})
	for _, addr := range []meter.Address{alice, bob, carol, dave} {
		st.SetBalance(addr, new(big.Int).SetUint64(initialFunds))
	}
	return &fixture{t: t, st: st, auction: NewAuction(minter), now: T0}
}

func (f *fixture) exec(origin meter.Address, ab *AuctionBody) (*setypes.ScriptEnv, error) {
	f.seq++
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], f.seq)
	txCtx := &xenv.TransactionContext{
		ID:     meter.Blake2b(seq[:]),
		Origin: origin,
		Time:   f.now,
	}
	env := setypes.NewScriptEnv(f.st, txCtx, &meter.AuctionModuleAddr)
	if f.transferrer != nil {
		env.WithTransferrer(f.transferrer)
	}
	return env, f.auction.Handle(env, ab)
}

func (f *fixture) mustExec(origin meter.Address, ab *AuctionBody) *setypes.ScriptEnv {
	env, err := f.exec(origin, ab)
	require.NoError(f.t, err)
	return env
}

func (f *fixture) init(owner meter.Address, id string, minimum, endTime uint64) *setypes.ScriptEnv {
	return f.mustExec(owner, &AuctionBody{
		Opcode:    meter.OP_INIT,
		ListingID: meter.ListingID(id),
		Minimum:   minimum,
		EndTime:   endTime,
	})
}

func (f *fixture) initPooled(owner meter.Address, id string, minimum, endTime uint64) {
	f.mustExec(owner, &AuctionBody{
		Opcode:    meter.OP_INIT,
		ListingID: meter.ListingID(id),
		Minimum:   minimum,
		EndTime:   endTime,
		Mode:      meter.PooledSettlement,
	})
}

func (f *fixture) bid(bidder meter.Address, id string, gross uint64) error {
	_, err := f.exec(bidder, &AuctionBody{Opcode: meter.OP_BID, ListingID: meter.ListingID(id), Amount: gross})
	return err
}

func (f *fixture) withdraw(bidder meter.Address, id string) error {
	_, err := f.exec(bidder, &AuctionBody{Opcode: meter.OP_WITHDRAW, ListingID: meter.ListingID(id)})
	return err
}

func (f *fixture) end(caller meter.Address, id string) error {
	_, err := f.exec(caller, &AuctionBody{Opcode: meter.OP_END, ListingID: meter.ListingID(id)})
	return err
}

func (f *fixture) setFees(buyer, seller uint64) {
	f.mustExec(authority, &AuctionBody{Opcode: meter.OP_SET_FEES, BuyerFee: buyer, SellerFee: seller})
}

func (f *fixture) get(id string) *meter.Auction {
	auc, err := GetAuctionDetails(f.st, meter.ListingID(id))
	require.NoError(f.t, err)
	return auc
}

func (f *fixture) balance(addr meter.Address) uint64 {
	return f.st.GetBalance(addr).Uint64()
}

func (f *fixture) escrow(id string, addr meter.Address) uint64 {
	return f.st.GetEscrow(meter.ListingID(id), addr).Amount
}

type transferFunc func(env *setypes.ScriptEnv, from, to meter.Address, amount uint64) error

func (fn transferFunc) Transfer(env *setypes.ScriptEnv, from, to meter.Address, amount uint64) error {
	return fn(env, from, to, amount)
}

func stateTransfer(env *setypes.ScriptEnv, from, to meter.Address, amount uint64) error {
	return setypes.StateTransferrer{}.Transfer(env, from, to, amount)
}
