// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"fmt"
	"sync"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// ModuleHandler executes a module payload against the env.
type ModuleHandler func(senv *setypes.ScriptEnv, payload []byte, to *meter.Address) (*setypes.ScriptEngineOutput, error)

// Module is one registered script module.
type Module struct {
	modName    string
	modID      uint32
	modHandler ModuleHandler
}

func (m *Module) Name() string { return m.modName }
func (m *Module) ID() uint32   { return m.modID }

// Registry maps module ids to modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[uint32]*Module
}

func (r *Registry) Register(modID uint32, p *Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modules == nil {
		r.modules = make(map[uint32]*Module)
	}
	if _, ok := r.modules[modID]; ok {
		return fmt.Errorf("module with ID %v is already registered", modID)
	}
	r.modules[modID] = p
	return nil
}

func (r *Registry) Find(modID uint32) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[modID]
	return m, ok
}
