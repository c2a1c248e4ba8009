// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/binary"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var (
	ErrReplayed         = errors.New("tx already executed")
	ErrExpired          = errors.New("tx expired")
	ErrChainTagMismatch = errors.New("chain tag mismatch")
	ErrNotScript        = errors.New("payload is not script data")
)

var (
	// executor bookkeeping lives in state next to the auction records, so it
	// is committed in the same batch as the tx effects.
	executorAddr = meter.BytesToAddress([]byte("executor"))
	seqKey       = meter.BytesToBytes32([]byte("seq"))
)

func executedKey(id meter.Bytes32) meter.Bytes32 {
	return meter.Blake2b([]byte("executed"), id.Bytes())
}

func encodeSeq(seq uint64) meter.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return meter.BytesToBytes32(b[:])
}

func decodeSeq(v meter.Bytes32) uint64 {
	return binary.BigEndian.Uint64(v[24:])
}

// Sink receives the receipt of every committed tx, in commit order.
type Sink interface {
	Publish(r *tx.Receipt)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r *tx.Receipt)

func (f SinkFunc) Publish(r *tx.Receipt) { f(r) }

// Executor runs auction transactions one at a time. Each tx executes on a
// fresh state and is committed only when its handler succeeds.
type Executor struct {
	mu sync.Mutex

	creator     *state.Creator
	engine      *script.ScriptEngine
	clock       xenv.Clock
	chainTag    byte
	transferrer setypes.Transferrer
	sinks       []Sink
	logger      *slog.Logger
}

// New create an executor.
func New(creator *state.Creator, engine *script.ScriptEngine, clock xenv.Clock, chainTag byte) *Executor {
	registerMetrics()
	return &Executor{
		creator:  creator,
		engine:   engine,
		clock:    clock,
		chainTag: chainTag,
		logger:   slog.Default().With("pkg", "runtime"),
	}
}

// AddSink registers a receipt sink. Not safe to call while executing.
func (e *Executor) AddSink(s Sink) {
	e.sinks = append(e.sinks, s)
}

// SetTransferrer replaces the value transfer primitive handed to handlers.
func (e *Executor) SetTransferrer(t setypes.Transferrer) {
	e.transferrer = t
}

// State returns a read-only snapshot over the committed state.
func (e *Executor) State() *state.State {
	return e.creator.NewState()
}

// ChainTag returns the chain tag accepted by the executor.
func (e *Executor) ChainTag() byte { return e.chainTag }

// Now returns the executor clock time.
func (e *Executor) Now() uint64 { return e.clock.Now() }

// Seq returns the sequence number of the last committed tx.
func (e *Executor) Seq() uint64 {
	return decodeSeq(e.State().GetStorage(executorAddr, seqKey))
}

// IsExecuted reports whether the tx with the given id was committed.
func (e *Executor) IsExecuted(id meter.Bytes32) bool {
	return !e.State().GetStorage(executorAddr, executedKey(id)).IsZero()
}

// ExecuteRaw decodes an rlp encoded signed tx and executes it.
func (e *Executor) ExecuteRaw(ctx context.Context, raw []byte) (*tx.Receipt, error) {
	var trx tx.Transaction
	if err := rlp.DecodeBytes(raw, &trx); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return e.Execute(ctx, &trx)
}

// Execute runs one signed tx.
func (e *Executor) Execute(ctx context.Context, trx *tx.Transaction) (*tx.Receipt, error) {
	origin, err := trx.Origin()
	if err != nil {
		return nil, errors.Wrap(err, "recover origin")
	}
	if trx.ChainTag() != e.chainTag {
		return nil, errors.Wrapf(ErrChainTagMismatch, "want %d, got %d", e.chainTag, trx.ChainTag())
	}
	payload := trx.Payload()
	if !script.IsScriptData(payload) {
		return nil, ErrNotScript
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	now := e.clock.Now()
	if trx.IsExpired(now) {
		return nil, errors.Wrapf(ErrExpired, "expiration %d, now %d", trx.Expiration(), now)
	}

	id := trx.ID()
	st := e.creator.NewState()
	if !st.GetStorage(executorAddr, executedKey(id)).IsZero() {
		return nil, ErrReplayed
	}

	txCtx := &xenv.TransactionContext{
		ID:         id,
		Origin:     origin,
		Time:       now,
		Expiration: trx.Expiration(),
		Nonce:      trx.Nonce(),
	}
	env := setypes.NewScriptEnv(st, txCtx, &meter.AuctionModuleAddr)
	if e.transferrer != nil {
		env.WithTransferrer(e.transferrer)
	}

	op := opOf(payload)
	out, err := e.engine.HandleScriptData(env, payload, &meter.AuctionModuleAddr)
	if err != nil {
		txFailedCounter.WithLabelValues(auction.KindOf(err).String()).Inc()
		e.logger.Debug("tx failed", "tx", txCtx, "op", meter.GetOpName(op), "err", err)
		return nil, err
	}

	seq := decodeSeq(st.GetStorage(executorAddr, seqKey)) + 1
	st.SetStorage(executorAddr, seqKey, encodeSeq(seq))
	st.SetStorage(executorAddr, executedKey(id), encodeSeq(seq))
	if err := st.Err(); err != nil {
		return nil, err
	}
	digest, err := st.Stage().Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	receipt := &tx.Receipt{
		TxID:      id,
		Seq:       seq,
		Origin:    origin,
		Op:        op,
		Timestamp: now,
		Digest:    digest,
		Output:    out.GetData(),
		Events:    out.GetEvents(),
		Transfers: out.GetTransfers(),
	}

	elapsed := time.Since(start)
	txExecutedCounter.WithLabelValues(meter.GetOpName(op)).Inc()
	txDurationHistogram.Observe(elapsed.Seconds())
	seqGauge.Set(float64(seq))
	e.logger.Info("tx executed", "seq", seq, "id", id.AbbrevString(), "op", meter.GetOpName(op),
		"origin", origin, "events", len(receipt.Events), "elapsed", meter.PrettyDuration(elapsed))

	for _, s := range e.sinks {
		s.Publish(receipt)
	}
	return receipt, nil
}

// opOf extracts the auction opcode from script data, zero if it can not be decoded.
func opOf(data []byte) uint32 {
	sd, err := script.DecodeScriptData(data[len(script.ScriptPattern):])
	if err != nil || sd.Header.GetModID() != script.AUCTION_MODULE_ID {
		return 0
	}
	body, err := auction.AuctionDecodeFromBytes(sd.Payload)
	if err != nil {
		return 0
	}
	return body.Opcode
}
