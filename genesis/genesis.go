// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"
	"log/slog"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

var (
	log = slog.Default().With("pkg", "genesis")

	ErrGenesisMismatch = errors.New("stored genesis does not match")

	genesisAddr = meter.BytesToAddress([]byte("genesis"))
	genesisKey  = meter.BytesToBytes32([]byte("id"))
)

// Builder collects the state initializers of a genesis.
type Builder struct {
	timestamp uint64
	stateFns  []func(state *state.State) error
}

// Timestamp sets the launch time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State appends a state initializer.
func (b *Builder) State(fn func(state *state.State) error) *Builder {
	b.stateFns = append(b.stateFns, fn)
	return b
}

func (b *Builder) apply(st *state.State) error {
	for _, fn := range b.stateFns {
		if err := fn(st); err != nil {
			return errors.Wrap(err, "state initializer")
		}
	}
	return st.Err()
}

// ComputeID runs the initializers on a scratch state and hashes the result.
func (b *Builder) ComputeID() (meter.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return meter.Bytes32{}, err
	}
	defer db.Close()

	st := state.New(db)
	if err := b.apply(st); err != nil {
		return meter.Bytes32{}, err
	}
	digest, err := st.Stage().Hash()
	if err != nil {
		return meter.Bytes32{}, err
	}
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], b.timestamp)
	return meter.Blake2b(digest.Bytes(), ts[:]), nil
}

// Genesis is the initial state of an auction house.
type Genesis struct {
	builder *Builder
	id      meter.Bytes32
	name    string
}

// ID returns genesis ID.
func (g *Genesis) ID() meter.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// ChainTag is the last byte of the genesis ID.
func (g *Genesis) ChainTag() byte {
	return g.id[len(g.id)-1]
}

// Build writes the genesis state unless it was written before. It reports
// whether anything was written.
func (g *Genesis) Build(creator *state.Creator) (bool, error) {
	st := creator.NewState()
	if stored := st.GetStorage(genesisAddr, genesisKey); !stored.IsZero() {
		if stored != g.id {
			return false, errors.Wrapf(ErrGenesisMismatch, "stored %v, want %v", stored, g.id)
		}
		return false, nil
	}
	if err := g.builder.apply(st); err != nil {
		return false, err
	}
	st.SetStorage(genesisAddr, genesisKey, g.id)
	if _, err := st.Stage().Commit(); err != nil {
		return false, errors.Wrap(err, "commit genesis")
	}
	log.Info("genesis written", "name", g.name, "id", g.id.AbbrevString())
	return true, nil
}
