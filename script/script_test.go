// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeScriptData(t *testing.T) {
	body := &auction.AuctionBody{Opcode: meter.OP_BID, ListingID: "L1", Amount: 1000}
	data, err := script.EncodeScriptData(body)
	require.NoError(t, err)
	assert.True(t, script.IsScriptData(data))

	sd, err := script.DecodeScriptData(data[len(script.ScriptPattern):])
	require.NoError(t, err)
	assert.Equal(t, script.AUCTION_MODULE_ID, sd.Header.GetModID())

	decoded, err := auction.AuctionDecodeFromBytes(sd.Payload)
	require.NoError(t, err)
	assert.Equal(t, body.Opcode, decoded.Opcode)
	assert.Equal(t, body.ListingID, decoded.ListingID)
	assert.Equal(t, body.Amount, decoded.Amount)

	_, err = script.EncodeScriptData("nope")
	assert.Error(t, err)
}

func TestHandleScriptData(t *testing.T) {
	db, _ := lvldb.NewMem()
	st := state.New(db)
	owner := meter.BytesToAddress([]byte("owner"))
	st.SetBalance(owner, big.NewInt(1))

	se := script.NewScriptEngine(nil)
	require.NotNil(t, se.Auction())

	env := setypes.NewScriptEnv(st, &xenv.TransactionContext{Origin: owner, Time: 100}, &meter.AuctionModuleAddr)
	data, err := script.EncodeScriptData(&auction.AuctionBody{Opcode: meter.OP_INIT, ListingID: "L1", Minimum: 1, EndTime: 200})
	require.NoError(t, err)

	out, err := se.HandleScriptData(env, data, &meter.AuctionModuleAddr)
	require.NoError(t, err)
	assert.Len(t, out.GetEvents(), 1)
	assert.Equal(t, []byte("L1"), out.GetData())
	assert.True(t, st.HasAuction("L1"))

	_, err = se.HandleScriptData(env, []byte{1, 2, 3, 4, 5}, nil)
	assert.True(t, errors.Is(err, script.ErrPatternMismatch))

	other, err := new(script.Builder).SetModID(7).SetPayload([]byte{0x80}).Encode()
	require.NoError(t, err)
	_, err = se.HandleScriptData(env, other, nil)
	assert.True(t, errors.Is(err, script.ErrUnknownModule))
}
