package gosubdiv

import (
	"fmt"
	"log/slog"
)

// RoundFunc receives the mesh produced by a subdivision round together with
// its triangle count. Returning an error stops refinement.
type RoundFunc func(m *Mesh, triangles int) error

// Refiner subdivides a mesh until it has at least Target triangles.
type Refiner struct {
	Target int
	Logger *slog.Logger
}

func NewRefiner(target int) *Refiner {
	return &Refiner{Target: target}
}

func (r *Refiner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run subdivides m round by round while it has fewer than r.Target
// triangles, calling onRound after every round. Every round quadruples the
// triangle count, so the result usually overshoots the target. A mesh with no
// faces never grows and is returned untouched.
//
// Run returns the final mesh and the number of rounds performed. The input
// mesh is never modified.
func (r *Refiner) Run(m *Mesh, onRound RoundFunc) (*Mesh, int, error) {
	log := r.logger()

	current := m
	triangles := current.FaceCount()
	if triangles == 0 {
		log.Warn("mesh has no faces, nothing to refine", "target", r.Target)
		return current, 0, nil
	}

	rounds := 0
	for triangles < r.Target {
		next, err := Subdivide(current)
		if err != nil {
			return current, rounds, fmt.Errorf("round %d: %w", rounds+1, err)
		}
		current = next
		triangles = current.FaceCount()
		rounds++

		log.Debug("subdivided",
			"round", rounds,
			"vertices", current.VertexCount(),
			"triangles", triangles)

		if onRound != nil {
			if err := onRound(current, triangles); err != nil {
				return current, rounds, fmt.Errorf("round %d: %w", rounds, err)
			}
		}
	}

	return current, rounds, nil
}

// RefineToTarget is shorthand for NewRefiner(target).Run(m, onRound).
func RefineToTarget(m *Mesh, target int, onRound RoundFunc) (*Mesh, int, error) {
	return NewRefiner(target).Run(m, onRound)
}
