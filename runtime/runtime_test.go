// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testChainTag = byte(0x4a)
	T0           = uint64(1_000_000)
)

type account struct {
	key  *ecdsa.PrivateKey
	addr meter.Address
}

func newAccount(t *testing.T) account {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return account{key, meter.Address(crypto.PubkeyToAddress(key.PublicKey))}
}

type testEnv struct {
	t        *testing.T
	exec     *Executor
	clock    *xenv.FixedClock
	alice    account
	bob      account
	receipts []*tx.Receipt
	nonce    uint64
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	creator := state.NewCreator(db)

	env := &testEnv{t: t, alice: newAccount(t), bob: newAccount(t), clock: xenv.NewFixedClock(T0)}

	st := creator.NewState()
	builtin.Params.Native(st).Apply(&params.Settings{
		FeeRecipient:       meter.BytesToAddress([]byte("fee-recipient")),
		BuyerFeeRate:       20,
		SellerFeeRate:      50,
		SnipingWindow:      300,
		TimeExtension:      600,
		NFTContract:        meter.BytesToAddress([]byte("nft-contract")),
		SettlementContract: meter.BytesToAddress([]byte("settlement")),
		Authority:          meter.BytesToAddress([]byte("authority")),
	})
	st.SetBalance(env.alice.addr, big.NewInt(1_000_000))
	st.SetBalance(env.bob.addr, big.NewInt(1_000_000))
	_, err = st.Stage().Commit()
	require.NoError(t, err)

	env.exec = New(creator, script.NewScriptEngine(nil), env.clock, testChainTag)
	env.exec.AddSink(SinkFunc(func(r *tx.Receipt) { env.receipts = append(env.receipts, r) }))
	return env
}

func (e *testEnv) build(from account, body *auction.AuctionBody, tag byte, exp uint64) *tx.Transaction {
	payload, err := script.EncodeScriptData(body)
	require.NoError(e.t, err)
	e.nonce++
	trx := new(tx.Builder).ChainTag(tag).Nonce(e.nonce).Expiration(exp).Payload(payload).Build()
	signed, err := tx.Sign(trx, from.key)
	require.NoError(e.t, err)
	return signed
}

func (e *testEnv) execute(from account, body *auction.AuctionBody) (*tx.Receipt, error) {
	return e.exec.Execute(context.Background(), e.build(from, body, testChainTag, 0))
}

func initBody(id meter.ListingID) *auction.AuctionBody {
	return &auction.AuctionBody{Opcode: meter.OP_INIT, ListingID: id, Minimum: 500, EndTime: T0 + 3600}
}

func TestExecuteCommits(t *testing.T) {
	e := newTestEnv(t)

	r, err := e.execute(e.alice, initBody("L1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Seq)
	assert.Equal(t, meter.OP_INIT, r.Op)
	assert.Equal(t, e.alice.addr, r.Origin)
	assert.Equal(t, T0, r.Timestamp)
	assert.Equal(t, []byte("L1"), r.Output)
	assert.Len(t, r.Events, 1)
	assert.False(t, r.Digest.IsZero())

	r, err = e.execute(e.bob, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Seq)
	assert.Len(t, r.Transfers, 1)

	st := e.exec.State()
	assert.Equal(t, e.bob.addr, st.GetAuction("L1").HighestBidder)
	assert.Equal(t, big.NewInt(999_000), st.GetBalance(e.bob.addr))
	assert.Equal(t, big.NewInt(1000), st.GetBalance(meter.AuctionModuleAddr))
	assert.Equal(t, uint64(2), e.exec.Seq())
	assert.True(t, e.exec.IsExecuted(r.TxID))

	require.Len(t, e.receipts, 2)
	assert.Equal(t, uint64(1), e.receipts[0].Seq)
	assert.Equal(t, uint64(2), e.receipts[1].Seq)
}

func TestExecuteFailureDiscardsState(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.execute(e.alice, initBody("L1"))
	require.NoError(t, err)

	_, err = e.execute(e.bob, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 100})
	assert.Equal(t, auction.KindValidation, auction.KindOf(err))

	_, err = e.execute(e.bob, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "nope", Amount: 1000})
	assert.Equal(t, auction.ErrUnknownListing, err)

	st := e.exec.State()
	assert.Equal(t, uint64(1), e.exec.Seq())
	assert.Equal(t, big.NewInt(1_000_000), st.GetBalance(e.bob.addr))
	assert.True(t, st.GetAuction("L1").HighestBidder.IsZero())
	assert.Len(t, e.receipts, 1)
}

func TestExecuteRejects(t *testing.T) {
	e := newTestEnv(t)

	trx := e.build(e.alice, initBody("L1"), testChainTag, 0)
	_, err := e.exec.Execute(context.Background(), trx)
	require.NoError(t, err)
	_, err = e.exec.Execute(context.Background(), trx)
	assert.Equal(t, ErrReplayed, err)

	_, err = e.exec.Execute(context.Background(), e.build(e.alice, initBody("L2"), testChainTag+1, 0))
	assert.Equal(t, ErrChainTagMismatch, errors.Cause(err))

	_, err = e.exec.Execute(context.Background(), e.build(e.alice, initBody("L3"), testChainTag, T0-1))
	assert.Equal(t, ErrExpired, errors.Cause(err))

	_, err = e.exec.Execute(context.Background(), e.build(e.alice, initBody("L4"), testChainTag, T0))
	assert.NoError(t, err)

	unsigned := new(tx.Builder).ChainTag(testChainTag).Payload([]byte{1, 2, 3, 4, 5}).Build()
	_, err = e.exec.Execute(context.Background(), unsigned)
	assert.Equal(t, tx.ErrUnsigned, errors.Cause(err))

	plain, err := tx.Sign(new(tx.Builder).ChainTag(testChainTag).Payload([]byte("hello world")).Build(), e.alice.key)
	require.NoError(t, err)
	_, err = e.exec.Execute(context.Background(), plain)
	assert.Equal(t, ErrNotScript, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.exec.Execute(ctx, e.build(e.alice, initBody("L5"), testChainTag, 0))
	assert.Equal(t, context.Canceled, err)

	assert.Equal(t, uint64(2), e.exec.Seq())
}

func TestExecuteRaw(t *testing.T) {
	e := newTestEnv(t)
	raw, err := rlp.EncodeToBytes(e.build(e.alice, initBody("L1"), testChainTag, 0))
	require.NoError(t, err)

	r, err := e.exec.ExecuteRaw(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Seq)

	_, err = e.exec.ExecuteRaw(context.Background(), []byte{0xc0, 0x01})
	assert.Error(t, err)
}

func TestOpOf(t *testing.T) {
	data, err := script.EncodeScriptData(&auction.AuctionBody{Opcode: meter.OP_WITHDRAW})
	require.NoError(t, err)
	assert.Equal(t, meter.OP_WITHDRAW, opOf(data))
	assert.Equal(t, uint32(0), opOf([]byte{0xde, 0xad, 0xbe, 0xef, 0x01}))
}

type fakePublisher struct {
	subjects []string
	data     [][]byte
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.data = append(p.data, data)
	return nil
}

func TestNATSSink(t *testing.T) {
	e := newTestEnv(t)
	pub := &fakePublisher{}
	e.exec.AddSink(NewNATSSink(pub))

	_, err := e.execute(e.alice, initBody("L1"))
	require.NoError(t, err)
	_, err = e.execute(e.bob, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 1000})
	require.NoError(t, err)

	require.Len(t, pub.subjects, 2)
	assert.Equal(t, "auction.events.L1", pub.subjects[0])

	var msg struct {
		Seq       uint64 `json:"seq"`
		Name      string `json:"name"`
		ListingID string `json:"listingID"`
		Data      struct {
			Amount uint64
			Fee    uint64
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(pub.data[1], &msg))
	assert.Equal(t, uint64(2), msg.Seq)
	assert.Equal(t, "BidPlaced", msg.Name)
	assert.Equal(t, "L1", msg.ListingID)
	assert.Equal(t, uint64(980), msg.Data.Amount)
	assert.Equal(t, uint64(20), msg.Data.Fee)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "auction.events.a_b_c-1", Subject("a.b c-1"))
	assert.Equal(t, "auction.events.", Subject(""))
}
