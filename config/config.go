// Copyright (C) 2024 corevm contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the per-instance knobs a pmvm.Context needs:
// heap size, per-frame stack budget, scheduler quantum and the set of
// enabled builtins, per §6.7. YAML is unmarshaled with sigs.k8s.io/yaml
// (declared in the teacher's own go.mod for its config loading) and
// then overridden from the environment with github.com/xyproto/env/v2,
// the config-with-env-override convention used across the retrieved
// pack.
package config

import (
	"os"

	"github.com/xyproto/env/v2"
	"sigs.k8s.io/yaml"
)

// Config holds everything a pmvm.Context needs to size and run a VM
// instance.
type Config struct {
	// HeapBytes is the size, in bytes, of the fixed arena the heap
	// allocator carves chunks from.
	HeapBytes int `json:"heapBytes"`

	// FrameStackSize is the operand-stack headroom pmvm.Context.Run gives
	// the root frame beyond its locals. Frames pushed by CALL_FUNCTION and
	// IMPORT_NAME use interp's fixed frameStackSize instead.
	FrameStackSize int `json:"frameStackSize"`

	// SchedQuantum is the number of opcodes pmvm.Context.Periodic runs
	// per call; the scheduler moves to the next runnable thread after
	// every opcode.
	SchedQuantum int `json:"schedQuantum"`

	// Builtins lists the names from interp's builtin table to expose;
	// a nil/empty slice means "all of them."
	Builtins []string `json:"builtins"`
}

// Default returns the Config a bare desktop run uses when no file or
// environment override is present.
func Default() Config {
	return Config{
		HeapBytes:      64 * 1024,
		FrameStackSize: 32,
		SchedQuantum:   1,
	}
}

// Load reads a YAML config file at path (if non-empty) over Default,
// then applies PMVM_-prefixed environment overrides, per §6.7.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides cfg's fields from PMVM_HEAP_BYTES, PMVM_STACK_SIZE
// and PMVM_SCHED_QUANTUM when set, per §6.7.
func applyEnv(cfg *Config) {
	if v := env.IntOr("PMVM_HEAP_BYTES", 0); v > 0 {
		cfg.HeapBytes = v
	}
	if v := env.IntOr("PMVM_STACK_SIZE", 0); v > 0 {
		cfg.FrameStackSize = v
	}
	if v := env.IntOr("PMVM_SCHED_QUANTUM", 0); v > 0 {
		cfg.SchedQuantum = v
	}
	if names := env.Str("PMVM_BUILTINS"); names != "" {
		cfg.Builtins = splitNonEmpty(names, ',')
	}
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
