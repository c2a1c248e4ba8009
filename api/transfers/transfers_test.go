// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	bidder := meter.BytesToAddress([]byte("bidder"))
	for i := 1; i <= 10; i++ {
		db.Publish(&tx.Receipt{
			Seq:       uint64(i),
			Origin:    bidder,
			Op:        meter.OP_BID,
			Timestamp: uint64(i),
			Transfers: tx.Transfers{{Sender: bidder, Recipient: meter.AuctionModuleAddr, Amount: big.NewInt(int64(100 * i))}},
		})
	}

	router := mux.NewRouter()
	transfers.New(db).Mount(router, "/logs/transfer")
	ts := httptest.NewServer(router)
	defer ts.Close()

	data, err := json.Marshal(&transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &bidder}},
		Range:       &logdb.Range{Unit: logdb.Time, From: 3, To: 5},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/logs/transfer", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var logs []*transfers.FilteredTransfer
	require.NoError(t, json.Unmarshal(body, &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, uint64(5), logs[0].Meta.Seq)
	assert.Equal(t, "Bid", logs[0].Meta.Op)
	assert.Equal(t, big.NewInt(500), (*big.Int)(logs[0].Amount))
	assert.Equal(t, meter.AuctionModuleAddr, logs[0].Recipient)
}
