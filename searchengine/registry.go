package searchengine

import (
	"fmt"
	"os"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
)

// Descriptor is one row of the static engine configuration registry:
// enough metadata for the factory to construct an engine and for the
// auto meta-engine to pick among them, per spec.md §4.1.
type Descriptor struct {
	Name           string
	RequiresAPIKey bool
	APIKeyEnv      string
	RequiresLLM    bool
	Reliability    float64
	Strengths      []string
	Weaknesses     []string
	// Factory constructs this engine given an LLM client (nil if
	// RequiresLLM is false) and the shared default-engine Config.
	Factory func(client llm.Client, cfg Config) Engine
}

// Registry is the process-wide, read-only-after-init engine configuration
// table. Concrete engines are registered by RegisterDefaults (see
// engines/register.go), called once at process start by cmd/ldr.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: map[string]Descriptor{}}
}

// Register adds or replaces a Descriptor by name.
func (r *Registry) Register(d Descriptor) {
	r.descriptors[d.Name] = d
}

// Descriptors returns every registered Descriptor, in no particular order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	return out
}

// Available reports whether name's required API key (if any) is present
// in the environment, so the factory and the auto meta-engine can skip
// engines that can't actually be constructed.
func (r *Registry) Available(name string) bool {
	d, ok := r.descriptors[name]
	if !ok {
		return false
	}
	if !d.RequiresAPIKey {
		return true
	}
	return os.Getenv(d.APIKeyEnv) != ""
}

// Build constructs the named engine, injecting client when the
// descriptor requires an LLM. Returns an error if the engine is unknown
// or its required API key is absent from the environment.
func (r *Registry) Build(name string, client llm.Client, cfg Config) (Engine, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("searchengine: unknown engine %q", name)
	}
	if d.RequiresAPIKey && os.Getenv(d.APIKeyEnv) == "" {
		return nil, fmt.Errorf("searchengine: engine %q requires %s to be set", name, d.APIKeyEnv)
	}

	var engineLLM llm.Client
	if d.RequiresLLM {
		engineLLM = client
	}
	return d.Factory(engineLLM, cfg), nil
}
