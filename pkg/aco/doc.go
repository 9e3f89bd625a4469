// Package aco approximates a maximum edge-preserving mapping between two
// graphs with ant colony optimization.
//
// # Overview
//
// A [Colony] repeatedly asks a set of agents for candidate mappings from the
// smaller graph into the larger one, scores every candidate with
// [score.Score], remembers the best mapping seen so far and reinforces the
// iteration's best candidate in a shared pheromone table. The search stops
// after [Params.Iterations] iterations or once the best score has not
// improved for [Params.MaxStagnation] consecutive iterations.
//
// # Strategies
//
// How agents construct mappings and how the pheromone table stores trails
// is pluggable through [Strategy]. Package pathfinder provides the default
// roulette-wheel strategy:
//
//	colony := &aco.Colony{
//	    Strategy: pathfinder.NewStrategy(),
//	    Params:   aco.DefaultParams(),
//	    Seed:     42,
//	}
//	res, err := colony.Match(ctx, g1, g2)
//
// # Reinforcement
//
// After the global best is updated, the iteration-best candidate is
// reinforced with [Reward], which is 1 when the iteration matched the global
// best and decays towards 0 as it falls behind.
//
// # Parallelism
//
// With [Colony.Parallel] set, agents of one iteration run concurrently.
// Candidates are collected by agent index and selection starts only after
// every agent has returned, so results are identical to sequential runs for
// the same seed. The pheromone table is updated once per iteration, after
// all agents have finished reading it.
package aco
