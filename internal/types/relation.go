package types

import (
	"github.com/samber/lo"

	ierr "github.com/priceforge/priceforge/internal/errors"
)

// RelationKind represents a directed edge from one rule to another.
// Relations are interpreted from the perspective of the declaring rule.
type RelationKind string

const (
	// RelationKindCascade marks the target as a cascade companion of the declarer
	RelationKindCascade RelationKind = "cascade"
	// RelationKindOverride drops the target whenever both are eligible,
	// regardless of priority. An authoring escape hatch that bypasses
	// priority ordering.
	RelationKindOverride RelationKind = "override"
	// RelationKindRequired gates the declarer on the target also being eligible
	RelationKindRequired RelationKind = "required"
	// RelationKindConflict blocks co-application in both directions even when
	// declared on one side only
	RelationKindConflict RelationKind = "conflict"
	// RelationKindCombinable lets the declarer co-apply with an exclusive target
	RelationKindCombinable RelationKind = "combinable"
)

func (k RelationKind) String() string {
	return string(k)
}

func (k RelationKind) Validate() error {
	allowed := []RelationKind{
		RelationKindCascade,
		RelationKindOverride,
		RelationKindRequired,
		RelationKindConflict,
		RelationKindCombinable,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid relation kind").
			WithHintf("Relation kind %s is not supported", k).
			Mark(ierr.ErrValidation)
	}
	return nil
}
