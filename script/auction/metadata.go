// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"

	"github.com/meterio/meter-auction/meter"
)

// BuildMetadata renders the metadata string attached to a minted token.
func BuildMetadata(id meter.ListingID, amount, winTime uint64, seller, settlement meter.Address) (string, error) {
	if seller.IsZero() {
		return "", ErrInvalidSeller
	}
	if settlement.IsZero() {
		return "", ErrInvalidPaymentContract
	}
	return fmt.Sprintf("listing_id:%s, amount:%d, time:%d, seller:%s, minter:%s",
		id, amount, winTime, seller, settlement), nil
}
