// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

const (
	OP_INIT                    = uint32(1)
	OP_BID                     = uint32(2)
	OP_WITHDRAW                = uint32(3)
	OP_END                     = uint32(4)
	OP_PAUSE                   = uint32(5)
	OP_SET_FEE_RECIPIENT       = uint32(6)
	OP_SET_NFT_CONTRACT        = uint32(7)
	OP_SET_SETTLEMENT_CONTRACT = uint32(8)
	OP_SET_FEES                = uint32(9)
	OP_SET_TIMING              = uint32(10)
	OP_SET_AUTHORITY           = uint32(11)
)

func GetOpName(op uint32) string {
	switch op {
	case OP_INIT:
		return "Init"
	case OP_BID:
		return "Bid"
	case OP_WITHDRAW:
		return "Withdraw"
	case OP_END:
		return "End"
	case OP_PAUSE:
		return "Pause"
	case OP_SET_FEE_RECIPIENT:
		return "SetFeeRecipient"
	case OP_SET_NFT_CONTRACT:
		return "SetNFTContract"
	case OP_SET_SETTLEMENT_CONTRACT:
		return "SetSettlementContract"
	case OP_SET_FEES:
		return "SetFees"
	case OP_SET_TIMING:
		return "SetTiming"
	case OP_SET_AUTHORITY:
		return "SetAuthority"
	default:
		return "Unknown"
	}
}

// IsGovernOp reports whether op may only be issued by the authority.
func IsGovernOp(op uint32) bool {
	switch op {
	case OP_PAUSE, OP_SET_FEE_RECIPIENT, OP_SET_NFT_CONTRACT, OP_SET_SETTLEMENT_CONTRACT,
		OP_SET_FEES, OP_SET_TIMING, OP_SET_AUTHORITY:
		return true
	}
	return false
}
