// Package clarity provides the k6/x/neoclarity JS module. Scripts use it to
// drive simulated tabs through the debug session tracker.
package clarity

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"github.com/neotools/neo-clarity/common"

	k6common "go.k6.io/k6/js/common"
	k6modules "go.k6.io/k6/js/modules"
)

const version = "0.1.0"

type (
	// RootModule is the global module instance that will create module
	// instances for each VU.
	RootModule struct{}

	// ModuleInstance represents an instance of the JS module.
	ModuleInstance struct {
		k6modules.InstanceCore
		mod mapping
	}
)

var (
	_ k6modules.IsModuleV2 = &RootModule{}
	_ k6modules.Instance   = &ModuleInstance{}
)

func init() {
	k6modules.Register("k6/x/neoclarity", New())
}

// New returns a pointer to a new RootModule instance.
func New() *RootModule {
	return &RootModule{}
}

// NewModuleInstance implements the k6modules.IsModuleV2 interface to return
// a new instance for each VU.
func (*RootModule) NewModuleInstance(vu k6modules.InstanceCore) k6modules.Instance {
	var logger logrus.FieldLogger
	if ie := vu.GetInitEnv(); ie != nil {
		logger = ie.Logger
	}

	return &ModuleInstance{
		InstanceCore: vu,
		mod:          mapModule(vu.GetRuntime(), logger),
	}
}

// GetExports returns the exports of the JS module so that it can be used in
// test scripts.
func (mi *ModuleInstance) GetExports() k6modules.Exports {
	return k6modules.Exports{Default: mi.mod}
}

// mapModule returns the module exports. Invalid configuration is thrown into
// the runtime.
func mapModule(rt *goja.Runtime, logger logrus.FieldLogger) mapping {
	return mapping{
		"newTab": func(opts goja.Value) *goja.Object {
			cfg, err := ParseConfig(rt, opts)
			if err != nil {
				k6common.Throw(rt, err)
			}
			tab, err := NewTab(cfg, nil, nil, common.NewLogger(logger, cfg.VerboseLog))
			if err != nil {
				k6common.Throw(rt, fmt.Errorf("creating tab: %w", err))
			}
			return rt.ToValue(mapTab(rt, tab)).ToObject(rt)
		},
		"defaultConfig": func() mapping {
			return exportConfig(common.DefaultConfig())
		},
		"version": version,
	}
}
