// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipt(seq uint64, events tx.Events, transfers tx.Transfers) *tx.Receipt {
	return &tx.Receipt{
		TxID:      meter.Blake2b([]byte{byte(seq)}),
		Seq:       seq,
		Origin:    meter.BytesToAddress([]byte("txOrigin")),
		Op:        2,
		Timestamp: 1000 + seq,
		Events:    events,
		Transfers: transfers,
	}
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	t0 := meter.BytesToBytes32([]byte("topic0"))
	t1 := meter.BytesToBytes32([]byte("topic1"))
	other := meter.BytesToBytes32([]byte("other"))
	addr := meter.BytesToAddress([]byte("addr"))

	for i := 1; i <= 100; i++ {
		topic1 := t1
		if i%2 == 0 {
			topic1 = other
		}
		ev := &tx.Event{Address: addr, Topics: []meter.Bytes32{t0, topic1}, Data: []byte("data")}
		db.Publish(receipt(uint64(i), tx.Events{ev}, nil))
	}

	seq, err := db.LastSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), seq)

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, []byte("data"), all[0].Data)
	assert.Equal(t, []meter.Bytes32{t0, t1}, all[0].ToTxEvent().Topics)
	assert.Nil(t, all[0].Topics[2])

	es, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range:   &logdb.Range{Unit: logdb.Seq, From: 0, To: 10},
		Options: &logdb.Options{Offset: 0, Limit: 3},
		Order:   logdb.DESC,
		CriteriaSet: []*logdb.EventCriteria{
			{Address: &addr, Topics: [logdb.MaxTopics]*meter.Bytes32{&t0, &t1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, es, 3)
	assert.Equal(t, uint64(9), es[0].Seq)
	assert.Equal(t, uint64(7), es[1].Seq)

	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range: &logdb.Range{Unit: logdb.Time, From: 1001, To: 1010},
		CriteriaSet: []*logdb.EventCriteria{
			{Topics: [logdb.MaxTopics]*meter.Bytes32{nil, &t1}},
			{Topics: [logdb.MaxTopics]*meter.Bytes32{nil, &other}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, es, 10)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	from := meter.BytesToAddress([]byte("from"))
	to := meter.BytesToAddress([]byte("to"))
	count := 50
	for i := 1; i <= count; i++ {
		transfer := &tx.Transfer{Sender: from, Recipient: to, Amount: big.NewInt(int64(i))}
		require.NoError(t, db.Prepare(receipt(uint64(i), nil, nil)).Insert(nil, tx.Transfers{transfer}).Commit())
	}

	origin := meter.BytesToAddress([]byte("txOrigin"))
	ts, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{TxOrigin: &origin, Recipient: &to}},
		Range:       &logdb.Range{Unit: logdb.Seq, From: 0, To: 1000},
		Options:     &logdb.Options{Offset: 0, Limit: uint64(count)},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, ts, count)
	assert.Equal(t, big.NewInt(int64(count)), ts[0].Amount)

	id := meter.Blake2b([]byte{7})
	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{TxID: &id})
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, uint64(7), ts[0].Seq)

	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Sender: &to}},
	})
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	assert.NotEmpty(t, db.DriverVersion())
	db.Publish(receipt(1, tx.Events{{Address: meter.AuctionModuleAddr, Topics: []meter.Bytes32{{1}}}}, nil))
	db.Close()

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	es, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, es, 1)
}

func BenchmarkLog(b *testing.B) {
	db, err := logdb.New(filepath.Join(b.TempDir(), "log.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()
	l := &tx.Event{
		Address: meter.BytesToAddress([]byte("addr")),
		Topics:  []meter.Bytes32{meter.BytesToBytes32([]byte("topic0")), meter.BytesToBytes32([]byte("topic1"))},
		Data:    []byte("data"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		batch := db.Prepare(receipt(uint64(i), nil, nil))
		for j := 0; j < 100; j++ {
			batch.Insert(tx.Events{l}, nil)
		}
		if err := batch.Commit(); err != nil {
			b.Fatal(err)
		}
	}
}
