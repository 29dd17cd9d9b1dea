// Package sketches holds the built-in drawing routines shipped with the
// demo player. Each file contributes one descriptor; all per-instance state
// lives in the state value returned by the sketch's Setup.
package sketches

import "github.com/Ajinqya/sketchloop/internal/sketch"

// All returns the built-in descriptors.
func All() []sketch.Descriptor {
	return []sketch.Descriptor{
		SpectrumBars(),
		PulseRings(),
		Plasma(),
	}
}

// RegisterAll registers every built-in sketch, stopping at the first error.
func RegisterAll(r *sketch.Registry) error {
	for _, d := range All() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
