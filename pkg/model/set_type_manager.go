package model

import (
	"github.com/limaJavier/projection/pkg/lattice"
	"go.uber.org/zap"
)

// historyEntry is the k-th most probable (set, parameter-assignment combination) pair of a set type
type historyEntry struct {
	Set         uint64
	Mapping     map[uint64]ParameterAssignment
	Probability float64
}

// setTypeManager merges the streams of its set managers into one non-increasing stream memoized by index.
// It implements lattice.Dimension, growing its history on demand.
type setTypeManager struct {
	setType  SetType
	managers *lattice.Queue[*setManager]
	history  []historyEntry // Append-only
	total    uint64
}

func newSetTypeManager(input ProjectionInput, setType SetType, logger *zap.Logger) (*setTypeManager, error) {
	manager := &setTypeManager{
		setType: setType,
		managers: lattice.NewQueue(func(a, b *setManager) bool {
			if pa, pb := a.probability(), b.probability(); pa != pb {
				return pa > pb
			}
			return a.order < b.order
		}),
		history: make([]historyEntry, 0),
	}

	for order, index := range setType.Sets {
		set := input.Sets[index]
		member, missing := newSetManager(set, order, setType.Parameters)
		if member == nil {
			logger.Warn("excluding set without candidates for some parameter instances",
				zap.String("setType", setType.Name),
				zap.String("set", set.Name),
				zap.Uint64s("parameters", missing),
			)
			continue
		}
		manager.total = saturatingAdd(manager.total, member.combinations())
		manager.managers.Push(member)
	}

	if manager.managers.Len() == 0 {
		return nil, configurationErrorf("set type %q has no usable sets", setType.Name)
	}
	return manager, nil
}

// ensureHistory grows the history until it holds index k or every set manager is exhausted
func (manager *setTypeManager) ensureHistory(k int) bool {
	for len(manager.history) <= k {
		front, ok := manager.managers.Pop()
		if !ok {
			break
		}
		manager.history = append(manager.history, historyEntry{
			Set:         front.set.Id,
			Mapping:     front.currentMapping(),
			Probability: front.probability(),
		})
		// Exhausted set managers are dropped permanently
		if front.advance() {
			manager.managers.Push(front)
		}
	}
	return k < len(manager.history)
}

func (manager *setTypeManager) hasAssignment(k int) bool {
	return k >= 0 && manager.ensureHistory(k)
}

func (manager *setTypeManager) getProbability(k int) float64 {
	manager.ensureHistory(k)
	return manager.history[k].Probability
}

func (manager *setTypeManager) getAssignment(k int) historyEntry {
	manager.ensureHistory(k)
	return manager.history[k]
}

func (manager *setTypeManager) Has(index int) bool {
	return manager.hasAssignment(index)
}

func (manager *setTypeManager) Probability(index int) float64 {
	return manager.getProbability(index)
}

// combinations returns the number of (set, combination) pairs of the type
func (manager *setTypeManager) combinations() uint64 {
	return manager.total
}
