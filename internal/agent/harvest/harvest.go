// Package harvest decides whether the cell beneath the agent holds a mature
// crop and removes it if so.
package harvest

import (
	"strings"

	"fieldharvest.ai/internal/actuator"
)

// Classifier recognizes harvestable identities: an exact allow-list first,
// then a keyword heuristic that must match the include keyword and not the
// exclude keyword. The exclude keyword tells a mature crop apart from its
// growth-stage counterpart (melon vs melon_stem).
type Classifier struct {
	allow   map[string]struct{}
	include string
	exclude string
}

func NewClassifier(allow []string, include, exclude string) Classifier {
	c := Classifier{
		allow:   make(map[string]struct{}, len(allow)),
		include: include,
		exclude: exclude,
	}
	for _, id := range allow {
		c.allow[id] = struct{}{}
	}
	return c
}

func (c Classifier) Harvestable(identity string) bool {
	if identity == "" {
		return false
	}
	if _, ok := c.allow[identity]; ok {
		return true
	}
	if c.include == "" {
		return false
	}
	if !strings.Contains(identity, c.include) {
		return false
	}
	if c.exclude != "" && strings.Contains(identity, c.exclude) {
		return false
	}
	return true
}

type Policy struct {
	act actuator.Actuator
	cls Classifier
}

func NewPolicy(act actuator.Actuator, cls Classifier) Policy {
	return Policy{act: act, cls: cls}
}

// HarvestCell inspects the cell below and clears it when the classifier
// recognizes the content. An empty cell is a no-op. The removed content is
// assumed to land in the inventory; that is not verified per cell.
// Returns whether a harvest happened and the identity seen.
func (p Policy) HarvestCell() (bool, string, error) {
	present, identity, err := p.act.InspectBelow()
	if err != nil {
		return false, "", err
	}
	if !present || !p.cls.Harvestable(identity) {
		return false, identity, nil
	}
	if err := p.act.ClearBelow(); err != nil {
		return false, identity, err
	}
	return true, identity, nil
}
