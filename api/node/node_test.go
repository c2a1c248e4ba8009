// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct{}

func (fakeBackend) ChainTag() byte { return 0x4a }
func (fakeBackend) Seq() uint64    { return 7 }
func (fakeBackend) Now() uint64    { return 1234 }

func httpGet(t *testing.T, url string) []byte {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data
}

func TestNode(t *testing.T) {
	genesisID := meter.Blake2b([]byte("genesis"))
	router := mux.NewRouter()
	node.New(fakeBackend{}, genesisID, func() int { return 3 }).Mount(router, "/node")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var status node.Status
	require.NoError(t, json.Unmarshal(httpGet(t, ts.URL+"/node/status"), &status))
	assert.Equal(t, uint8(0x4a), status.ChainTag)
	assert.Equal(t, genesisID, status.GenesisID)
	assert.Equal(t, uint64(7), status.Seq)
	assert.Equal(t, uint64(1234), status.Now)
	assert.Equal(t, 3, status.Subscribers)

	var tag uint8
	require.NoError(t, json.Unmarshal(httpGet(t, ts.URL+"/node/chaintag"), &tag))
	assert.Equal(t, uint8(0x4a), tag)
}
