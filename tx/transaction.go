// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

var (
	ErrUnsigned = errors.New("tx not signed")
)

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		signer      atomic.Value
		id          atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	ChainTag   byte
	Nonce      uint64
	Expiration uint64 // unix seconds, zero never expires
	Payload    []byte
	Signature  []byte
}

// ChainTag returns chain tag.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Expiration returns the time after which the tx is rejected.
func (t *Transaction) Expiration() uint64 {
	return t.body.Expiration
}

// IsExpired returns whether the tx is expired at the given time.
func (t *Transaction) IsExpired(now uint64) bool {
	return t.body.Expiration != 0 && now > t.body.Expiration
}

// Payload returns the encoded module body.
func (t *Transaction) Payload() []byte {
	return append([]byte(nil), t.body.Payload...)
}

// ID returns id of tx.
// ID = hash(signingHash, signer).
// It returns zero Bytes32 if signer not available.
func (t *Transaction) ID() (id meter.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	signer, err := t.Signer()
	if err != nil || signer.IsZero() {
		return
	}
	hw := meter.NewBlake2b()
	hw.Write(t.SigningHash().Bytes())
	hw.Write(signer.Bytes())
	hw.Sum(id[:0])
	return
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() (hash meter.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.signingHash.Store(hash) }()

	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		t.body.ChainTag,
		t.body.Nonce,
		t.body.Expiration,
		t.body.Payload,
	})
	if err != nil {
		return
	}

	hw.Sum(hash[:0])
	return
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// Signer extract signer of tx from signature.
func (t *Transaction) Signer() (signer meter.Address, err error) {
	// set the origin to nil if no signature
	if len(t.body.Signature) == 0 {
		return meter.Address{}, nil
	}

	if cached := t.cache.signer.Load(); cached != nil {
		return cached.(meter.Address), nil
	}
	defer func() {
		if err == nil {
			t.cache.signer.Store(signer)
		}
	}()

	pub, err := crypto.SigToPub(t.SigningHash().Bytes(), t.body.Signature)
	if err != nil {
		return meter.Address{}, err
	}
	signer = meter.Address(crypto.PubkeyToAddress(*pub))
	return
}

// Origin returns the authenticated caller of the tx.
func (t *Transaction) Origin() (meter.Address, error) {
	signer, err := t.Signer()
	if err != nil {
		return meter.Address{}, err
	}
	if signer.IsZero() {
		return meter.Address{}, ErrUnsigned
	}
	return signer, nil
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Sign signs the tx with the given key.
func Sign(t *Transaction, key *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(t.SigningHash().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return t.WithSignature(sig), nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	var (
		from string
		id   string
	)
	signer, err := t.Signer()
	if err != nil || signer.IsZero() {
		from = "N/A"
		id = "N/A"
	} else {
		from = signer.String()
		id = t.ID().String()
	}
	return fmt.Sprintf(`
	Tx(%v)
	From:        %v
	ChainTag:    %v
	Nonce:       %v
	Expiration:  %v
	Payload:     %v bytes
	Signature:   0x%x
`, id, from, t.body.ChainTag, t.body.Nonce, t.body.Expiration, len(t.body.Payload), t.body.Signature)
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// ChainTag set chain tag.
func (b *Builder) ChainTag(tag byte) *Builder {
	b.body.ChainTag = tag
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Expiration set expiration time.
func (b *Builder) Expiration(exp uint64) *Builder {
	b.body.Expiration = exp
	return b
}

// Payload set the module body.
func (b *Builder) Payload(payload []byte) *Builder {
	b.body.Payload = append([]byte(nil), payload...)
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	return &tx
}
