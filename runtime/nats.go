// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

// SubjectPrefix prefixes the subject every auction event is published on.
const SubjectPrefix = "auction.events."

// Publisher is the part of a NATS connection the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes decoded auction events to NATS, one message per event.
type NATSSink struct {
	pub    Publisher
	logger *slog.Logger
}

func NewNATSSink(pub Publisher) *NATSSink {
	return &NATSSink{pub: pub, logger: slog.Default().With("pkg", "nats")}
}

// ConnectNATS dials the NATS server at url.
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("auctiond"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "pkg", "nats", "err", err)
			}
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect nats %v", url)
	}
	return conn, nil
}

// Subject returns the subject events of a listing are published on.
func Subject(id meter.ListingID) string {
	var b strings.Builder
	for _, r := range string(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return SubjectPrefix + b.String()
}

func (s *NATSSink) Publish(r *tx.Receipt) {
	for _, msg := range MessagesOf(r) {
		data, err := json.Marshal(msg)
		if err != nil {
			s.logger.Error("marshal event failed", "err", err)
			continue
		}
		subject := Subject(msg.ListingID)
		if err := s.pub.Publish(subject, data); err != nil {
			s.logger.Warn("publish event failed", "subject", subject, "err", err)
		}
	}
}
