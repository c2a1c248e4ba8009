// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	api "github.com/meterio/meter-auction/api/auction"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const T0 = uint64(1_600_000_000)

type server struct {
	t     *testing.T
	ts    *httptest.Server
	clock *xenv.FixedClock
	tag   byte
	nonce uint64
}

func newServer(t *testing.T) *server {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	creator := state.NewCreator(db)
	g := genesis.NewDevnet()
	_, err = g.Build(creator)
	require.NoError(t, err)

	clock := xenv.NewFixedClock(T0)
	exec := runtime.New(creator, script.NewScriptEngine(nil), clock, g.ChainTag())

	router := mux.NewRouter()
	api.New(exec).Mount(router, "/auction")
	s := &server{t: t, ts: httptest.NewServer(router), clock: clock, tag: g.ChainTag()}
	t.Cleanup(s.ts.Close)
	return s
}

func (s *server) rawTx(from genesis.DevAccount, body *auction.AuctionBody) string {
	payload, err := script.EncodeScriptData(body)
	require.NoError(s.t, err)
	s.nonce++
	trx, err := tx.Sign(new(tx.Builder).ChainTag(s.tag).Nonce(s.nonce).Payload(payload).Build(), from.PrivateKey)
	require.NoError(s.t, err)
	raw, err := rlp.EncodeToBytes(trx)
	require.NoError(s.t, err)
	return hexutil.Encode(raw)
}

func (s *server) post(path string, obj interface{}) (int, []byte) {
	data, err := json.Marshal(obj)
	require.NoError(s.t, err)
	res, err := http.Post(s.ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(s.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, body
}

func (s *server) get(path string, v interface{}) int {
	res, err := http.Get(s.ts.URL + path)
	require.NoError(s.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(s.t, json.Unmarshal(body, v))
	}
	return res.StatusCode
}

func (s *server) submit(from genesis.DevAccount, body *auction.AuctionBody) (int, *api.Receipt) {
	status, data := s.post("/auction/transactions", &api.RawTx{Raw: s.rawTx(from, body)})
	if status != http.StatusOK {
		return status, nil
	}
	var r api.Receipt
	require.NoError(s.t, json.Unmarshal(data, &r))
	return status, &r
}

func TestAuctionAPI(t *testing.T) {
	s := newServer(t)
	accs := genesis.DevAccounts()
	seller, bidder1, bidder2 := accs[2], accs[3], accs[4]

	var p api.Params
	require.Equal(t, http.StatusOK, s.get("/auction/params", &p))
	assert.Equal(t, "2", p.BuyerFeePercent)
	assert.Equal(t, "5", p.SellerFeePercent)
	assert.Equal(t, accs[0].Address, p.Authority)

	status, r := s.submit(seller, &auction.AuctionBody{Opcode: meter.OP_INIT, ListingID: "L1", Minimum: 500, EndTime: T0 + 3600})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Init", r.Op)
	assert.Equal(t, uint64(1), r.Seq)
	require.Len(t, r.Events, 1)
	assert.Equal(t, "AuctionInitialized", r.Events[0].Name)

	status, r = s.submit(bidder1, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 1000})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, r.Transfers, 1)
	assert.Equal(t, "1000", r.Transfers[0].Amount)

	status, _ = s.submit(bidder2, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 2000})
	require.Equal(t, http.StatusOK, status)

	var l api.Listing
	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1", &l))
	assert.Equal(t, uint64(1960), l.HighestBid)
	assert.Equal(t, bidder2.Address, l.HighestBidder)
	assert.Equal(t, 2, l.BidCount)
	assert.Equal(t, uint64(3600), l.Remaining)
	assert.Equal(t, "standard", l.Mode)
	assert.Nil(t, l.TokenID)

	var bids []*api.Bid
	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1/bids?n=1", &bids))
	require.Len(t, bids, 1)
	assert.Equal(t, bidder2.Address, bids[0].Bidder)
	assert.Equal(t, http.StatusBadRequest, s.get("/auction/listings/L1/bids?n=x", nil))

	var b api.Bidder
	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1/bidders/"+bidder1.Address.String(), &b))
	assert.Equal(t, uint64(980), b.Amount)
	assert.Equal(t, uint64(980), b.Pending)
	assert.False(t, b.Leading)
	assert.Equal(t, http.StatusBadRequest, s.get("/auction/listings/L1/bidders/0x1234", nil))

	var stats api.Stats
	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1/stats", &stats))
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, uint64(980), stats.Min)
	assert.Equal(t, uint64(1960), stats.Max)
	assert.Equal(t, "1470", stats.Mean)

	var ids []meter.ListingID
	require.Equal(t, http.StatusOK, s.get("/auction/owners/"+seller.Address.String()+"/active", &ids))
	assert.Equal(t, []meter.ListingID{"L1"}, ids)

	var userBids []*api.UserBid
	require.Equal(t, http.StatusOK, s.get("/auction/bidders/"+bidder2.Address.String()+"/bids", &userBids))
	require.Len(t, userBids, 1)
	assert.True(t, userBids[0].Leading)

	assert.Equal(t, http.StatusNotFound, s.get("/auction/listings/nope", nil))
	assert.Equal(t, http.StatusConflict, s.get("/auction/listings/L1/winner", nil))

	status, _ = s.submit(bidder1, &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 0})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.submit(bidder2, &auction.AuctionBody{Opcode: meter.OP_WITHDRAW, ListingID: "L1"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = s.submit(bidder1, &auction.AuctionBody{Opcode: meter.OP_PAUSE, ListingID: "L1", Paused: true})
	assert.Equal(t, http.StatusForbidden, status)

	s.clock.Set(T0 + 3601)
	status, r = s.submit(seller, &auction.AuctionBody{Opcode: meter.OP_END, ListingID: "L1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "End", r.Op)

	var winner map[string]meter.Address
	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1/winner", &winner))
	assert.Equal(t, bidder2.Address, winner["winner"])

	require.Equal(t, http.StatusOK, s.get("/auction/listings/L1", &l))
	assert.True(t, l.Ended)
	assert.NotNil(t, l.TokenID)

	require.Equal(t, http.StatusOK, s.get("/auction/owners/"+seller.Address.String()+"/past", &ids))
	assert.Equal(t, []meter.ListingID{"L1"}, ids)
}

func TestSendTransactionErrors(t *testing.T) {
	s := newServer(t)
	seller := genesis.DevAccounts()[2]

	raw := s.rawTx(seller, &auction.AuctionBody{Opcode: meter.OP_INIT, ListingID: "L1", Minimum: 1, EndTime: T0 + 10})
	status, _ := s.post("/auction/transactions", &api.RawTx{Raw: raw})
	require.Equal(t, http.StatusOK, status)
	status, _ = s.post("/auction/transactions", &api.RawTx{Raw: raw})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.post("/auction/transactions", &api.RawTx{Raw: "0xzz"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.post("/auction/transactions", map[string]string{"unknown": "1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.submit(seller, &auction.AuctionBody{Opcode: meter.OP_INIT, ListingID: "L1", Minimum: 1, EndTime: T0 + 10})
	assert.Equal(t, http.StatusBadRequest, status)
}
