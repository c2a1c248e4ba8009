// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/fortytw2/leaktest"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bidder = meter.BytesToAddress([]byte("bidder"))

func bidReceipt(t *testing.T, seq uint64, id meter.ListingID, amount uint64) *tx.Receipt {
	data, err := rlp.EncodeToBytes(&auction.BidPlaced{ListingID: id, Bidder: bidder, Amount: amount})
	require.NoError(t, err)
	return &tx.Receipt{
		TxID:      meter.Blake2b([]byte{byte(seq)}),
		Seq:       seq,
		Origin:    bidder,
		Op:        meter.OP_BID,
		Timestamp: 1000 + seq,
		Events: tx.Events{{
			Address: meter.AuctionModuleAddr,
			Topics:  []meter.Bytes32{auction.BidPlacedSig, auction.ListingTopic(id), auction.AddressTopic(bidder)},
			Data:    data,
		}},
	}
}

type message struct {
	Seq       uint64 `json:"seq"`
	Name      string `json:"name"`
	ListingID string `json:"listingID"`
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) message {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub(t *testing.T) {
	defer leaktest.Check(t)()

	hub := subscriptions.New([]string{"*"})
	router := mux.NewRouter()
	hub.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)

	l1 := dial(t, ts, "/subscriptions/listing/L1")
	all := dial(t, ts, "/subscriptions/events")
	require.Eventually(t, func() bool { return hub.Count() == 2 }, 5*time.Second, 10*time.Millisecond)

	hub.Publish(bidReceipt(t, 1, "L2", 700))
	hub.Publish(bidReceipt(t, 2, "L1", 800))

	msg := read(t, l1)
	assert.Equal(t, uint64(2), msg.Seq)
	assert.Equal(t, "BidPlaced", msg.Name)
	assert.Equal(t, "L1", msg.ListingID)

	assert.Equal(t, "L2", read(t, all).ListingID)
	assert.Equal(t, "L1", read(t, all).ListingID)

	l1.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 5*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Count())
	all.Close()
	ts.Close()
}

func TestHubRejectsOrigin(t *testing.T) {
	defer leaktest.Check(t)()

	hub := subscriptions.New([]string{"https://allowed.example"})
	router := mux.NewRouter()
	hub.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events"
	_, _, err := websocket.DefaultDialer.Dial(url, map[string][]string{"Origin": {"https://evil.example"}})
	assert.Error(t, err)
	assert.Equal(t, 0, hub.Count())
}
