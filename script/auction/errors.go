// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/pkg/errors"
)

// Kind classifies auction errors.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPrecondition
	KindValidation
	KindArithmetic
	KindExternal
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindPrecondition:
		return "precondition"
	case KindValidation:
		return "validation"
	case KindArithmetic:
		return "arithmetic"
	case KindExternal:
		return "external"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a classified auction error.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() Kind    { return e.kind }

func newError(kind Kind, msg string) *Error {
	return &Error{kind, msg}
}

var (
	ErrUnknownListing = newError(KindNotFound, "unknown listing")

	ErrAuctionClosed                   = newError(KindPrecondition, "auction closed")
	ErrAuctionPaused                   = newError(KindPrecondition, "auction paused")
	ErrAuctionExpired                  = newError(KindPrecondition, "auction expired")
	ErrAuctionNotYetExpired            = newError(KindPrecondition, "auction not yet expired")
	ErrAlreadyEnded                    = newError(KindPrecondition, "auction already ended")
	ErrNotEnded                        = newError(KindPrecondition, "auction not ended")
	ErrNoBids                          = newError(KindPrecondition, "auction has no bids")
	ErrSelfBid                         = newError(KindPrecondition, "owner can not bid on own listing")
	ErrCannotWithdrawWhileLeading      = newError(KindPrecondition, "highest bidder can not withdraw")
	ErrAlienAuctionWithdrawalForbidden = newError(KindPrecondition, "pooled auction does not allow withdrawal")
	ErrNoFundsToWithdraw               = newError(KindPrecondition, "no funds to withdraw")

	ErrInvalidListingID       = newError(KindValidation, "invalid listing id")
	ErrInvalidMinimum         = newError(KindValidation, "minimum bid must be positive")
	ErrInvalidEndTime         = newError(KindValidation, "end time must be in the future")
	ErrDuplicateListing       = newError(KindValidation, "listing already exists")
	ErrInvalidSeller          = newError(KindValidation, "invalid seller address")
	ErrInvalidPaymentContract = newError(KindValidation, "invalid payment contract address")
	ErrInvalidMode            = newError(KindValidation, "invalid settlement mode")
	ErrInvalidFeeRate         = newError(KindValidation, "fee rate exceeds 1000")
	ErrInvalidAddress         = newError(KindValidation, "invalid address")
	ErrZeroBid                = newError(KindValidation, "bid amount is zero")
	ErrBidBelowMinimum        = newError(KindValidation, "bid below minimum")
	ErrUnknownOpcode          = newError(KindValidation, "unknown auction opcode")

	ErrArithmeticOverflow  = newError(KindArithmetic, "arithmetic overflow")
	ErrArithmeticUnderflow = newError(KindArithmetic, "arithmetic underflow")

	ErrTransferFailed = newError(KindExternal, "transfer failed")
	ErrMintingFailed  = newError(KindExternal, "minting failed")

	ErrUnauthorized = newError(KindUnauthorized, "caller is not the authority")
)

// KindOf returns the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.kind
	}
	return KindUnknown
}

// external wraps a collaborator failure under one of the external errors.
func external(kind *Error, cause error) error {
	return errors.WithMessage(kind, cause.Error())
}
