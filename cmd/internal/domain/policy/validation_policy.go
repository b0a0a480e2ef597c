package policy

import (
	"math"
	"studynotes/cmd/internal/domain/entity"
)

// Aggregate is the rating summary of a note, derived only from its validations.
type Aggregate struct {
	Rating float64
	Count  int
}

// Rated reports whether at least one validation contributed to the aggregate.
func (a Aggregate) Rated() bool {
	return a.Count > 0
}

// ComputeAggregate returns the mean of all stars rounded to one decimal place.
// An empty sequence yields the zero Aggregate.
func ComputeAggregate(validations []entity.Validation) Aggregate {
	if len(validations) == 0 {
		return Aggregate{}
	}

	sum := 0
	for _, v := range validations {
		sum += v.Stars
	}
	mean := float64(sum) / float64(len(validations))
	return Aggregate{Rating: RoundRating(mean), Count: len(validations)}
}

// RoundRating rounds half away from zero to one decimal place.
func RoundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

func ValidStars(stars int) bool {
	return stars >= entity.MinStars && stars <= entity.MaxStars
}

// HasValidated reports whether validatorID is part of the validator set.
func HasValidated(validations []entity.Validation, validatorID int64) bool {
	for _, v := range validations {
		if v.ValidatorID == validatorID {
			return true
		}
	}
	return false
}

// ValidationRule holds the configurable parts of the validation workflow.
type ValidationRule struct {
	// Threshold is the number of validations after which a note is validated.
	Threshold int

	// UploaderReward is credited to the uploader for every validation
	// received from another user.
	UploaderReward int
}

func NewValidationRule(threshold, uploaderReward int) ValidationRule {
	if threshold < 1 {
		threshold = 1
	}
	if uploaderReward < 0 {
		uploaderReward = 0
	}
	return ValidationRule{Threshold: threshold, UploaderReward: uploaderReward}
}

func (r ValidationRule) ReachesThreshold(a Aggregate) bool {
	return a.Count >= r.Threshold
}

// RewardFor returns the credits owed to the note's uploader for a validation
// submitted by validatorID. Rating your own note earns nothing.
func (r ValidationRule) RewardFor(note *entity.Note, validatorID int64) int {
	if note.UploadedByID == validatorID {
		return 0
	}
	return r.UploaderReward
}

// Apply writes the aggregate onto the note. The validated flag only moves
// from false to true.
func (r ValidationRule) Apply(note *entity.Note, a Aggregate) {
	note.Rating = a.Rating
	note.RatingCount = a.Count
	if r.ReachesThreshold(a) {
		note.IsValidated = true
	}
}
