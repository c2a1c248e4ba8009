// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
)

// Backend exposes the executor counters reported by the node api.
type Backend interface {
	ChainTag() byte
	Seq() uint64
	Now() uint64
}

// Status is the running state of the node.
type Status struct {
	ChainTag    uint8         `json:"chainTag"`
	GenesisID   meter.Bytes32 `json:"genesisID"`
	Seq         uint64        `json:"seq"`
	Now         uint64        `json:"now"`
	Subscribers int           `json:"subscribers"`
}

type Node struct {
	backend     Backend
	genesisID   meter.Bytes32
	subscribers func() int
}

// New create node api. subscribers may be nil.
func New(backend Backend, genesisID meter.Bytes32, subscribers func() int) *Node {
	return &Node{
		backend,
		genesisID,
		subscribers,
	}
}

func (n *Node) Status() *Status {
	s := &Status{
		ChainTag:  n.backend.ChainTag(),
		GenesisID: n.genesisID,
		Seq:       n.backend.Seq(),
		Now:       n.backend.Now(),
	}
	if n.subscribers != nil {
		s.Subscribers = n.subscribers()
	}
	return s
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, n.Status())
}

func (n *Node) handleChainTag(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, n.backend.ChainTag())
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
	sub.Path("/chaintag").Methods("Get").HandlerFunc(utils.WrapHandlerFunc(n.handleChainTag))
}
