// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

var log = slog.Default().With("pkg", "api")

const defaultLatestBids = 10

// Backend is what the auction api reads from and submits to.
type Backend interface {
	State() *state.State
	Now() uint64
	ExecuteRaw(ctx context.Context, raw []byte) (*tx.Receipt, error)
}

type Auction struct {
	backend Backend
}

func New(backend Backend) *Auction {
	return &Auction{backend}
}

// convertError maps auction and runtime errors to http errors.
func convertError(err error) error {
	switch auction.KindOf(err) {
	case auction.KindNotFound:
		return utils.NotFound(err)
	case auction.KindPrecondition:
		return utils.HTTPError(err, http.StatusConflict)
	case auction.KindValidation:
		return utils.BadRequest(err)
	case auction.KindArithmetic:
		return utils.HTTPError(err, http.StatusUnprocessableEntity)
	case auction.KindExternal:
		return utils.HTTPError(err, http.StatusBadGateway)
	case auction.KindUnauthorized:
		return utils.Forbidden(err)
	}
	switch errors.Cause(err) {
	case runtime.ErrReplayed:
		return utils.HTTPError(err, http.StatusConflict)
	case runtime.ErrExpired, runtime.ErrChainTagMismatch, runtime.ErrNotScript, tx.ErrUnsigned:
		return utils.BadRequest(err)
	}
	return err
}

func parseAddress(req *http.Request, name string) (meter.Address, error) {
	addr, err := meter.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return meter.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func listingID(req *http.Request) meter.ListingID {
	return meter.ListingID(mux.Vars(req)["id"])
}

func (a *Auction) handleGetParams(w http.ResponseWriter, req *http.Request) error {
	return utils.WriteJSON(w, convertParams(auction.GetParams(a.backend.State())))
}

func (a *Auction) handleGetListing(w http.ResponseWriter, req *http.Request) error {
	auc, err := auction.GetAuctionDetails(a.backend.State(), listingID(req))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertListing(auc, a.backend.Now()))
}

func (a *Auction) handleGetBids(w http.ResponseWriter, req *http.Request) error {
	n, err := utils.ParseUint(req.URL.Query().Get("n"), defaultLatestBids)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "n"))
	}
	if n > meter.MaxLatestBids {
		n = meter.MaxLatestBids
	}
	bids, err := auction.GetLatestBids(a.backend.State(), listingID(req), int(n))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertBids(bids))
}

func (a *Auction) handleGetBidder(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	st := a.backend.State()
	id := listingID(req)
	entry, err := auction.GetUserBid(st, id, addr)
	if err != nil {
		return convertError(err)
	}
	pending, err := auction.GetPendingWithdrawal(st, id, addr)
	if err != nil {
		return convertError(err)
	}
	leader, err := auction.GetHighestBidder(st, id)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &Bidder{
		Amount:      entry.Amount,
		LastBidTime: entry.LastBidTime,
		Pending:     pending,
		Leading:     entry.Amount > 0 && leader == addr,
	})
}

func (a *Auction) handleGetStats(w http.ResponseWriter, req *http.Request) error {
	auc, err := auction.GetAuctionDetails(a.backend.State(), listingID(req))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, computeStats(auc))
}

func (a *Auction) handleGetWinner(w http.ResponseWriter, req *http.Request) error {
	winner, err := auction.GetWinner(a.backend.State(), listingID(req))
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, map[string]*meter.Address{"winner": &winner})
}

func (a *Auction) handleGetOwnerListings(active bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := parseAddress(req, "address")
		if err != nil {
			return err
		}
		var ids []meter.ListingID
		if active {
			ids = auction.GetActiveListingsOf(a.backend.State(), addr)
		} else {
			ids = auction.GetPastListingsOf(a.backend.State(), addr)
		}
		if ids == nil {
			ids = []meter.ListingID{}
		}
		return utils.WriteJSON(w, ids)
	}
}

func (a *Auction) handleGetUserBids(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertUserBids(auction.GetAllBidsOfUser(a.backend.State(), addr)))
}

func (a *Auction) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	start := time.Now()
	var rawTx RawTx
	if err := utils.ParseJSON(req.Body, &rawTx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	raw, err := hexutil.Decode(rawTx.Raw)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}
	receipt, err := a.backend.ExecuteRaw(req.Context(), raw)
	if err != nil {
		log.Debug("tx rejected", "err", err)
		return convertError(err)
	}
	log.Debug("tx accepted", "seq", receipt.Seq, "elapsed", meter.PrettyDuration(time.Since(start)))
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (a *Auction) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetParams))
	sub.Path("/listings/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetListing))
	sub.Path("/listings/{id}/bids").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBids))
	sub.Path("/listings/{id}/bidders/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBidder))
	sub.Path("/listings/{id}/stats").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetStats))
	sub.Path("/listings/{id}/winner").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetWinner))
	sub.Path("/owners/{address}/active").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetOwnerListings(true)))
	sub.Path("/owners/{address}/past").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetOwnerListings(false)))
	sub.Path("/bidders/{address}/bids").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetUserBids))
	sub.Path("/transactions").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleSendTransaction))
}
