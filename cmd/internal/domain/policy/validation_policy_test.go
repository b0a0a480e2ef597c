package policy

import (
	"studynotes/cmd/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stars(values ...int) []entity.Validation {
	vs := make([]entity.Validation, len(values))
	for i, s := range values {
		vs[i] = entity.Validation{ValidatorID: int64(i + 1), Stars: s}
	}
	return vs
}

func TestComputeAggregate(t *testing.T) {
	tests := []struct {
		name  string
		stars []int
		want  Aggregate
		rated bool
	}{
		{name: "empty", want: Aggregate{}},
		{name: "single", stars: []int{4}, want: Aggregate{Rating: 4.0, Count: 1}, rated: true},
		{name: "exact mean", stars: []int{5, 3}, want: Aggregate{Rating: 4.0, Count: 2}, rated: true},
		{name: "rounds down", stars: []int{5, 4, 4}, want: Aggregate{Rating: 4.3, Count: 3}, rated: true},
		{name: "rounds up", stars: []int{5, 5, 4}, want: Aggregate{Rating: 4.7, Count: 3}, rated: true},
		{name: "half rounds away from zero", stars: []int{1, 2, 5, 5}, want: Aggregate{Rating: 3.3, Count: 4}, rated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAggregate(stars(tt.stars...))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rated, got.Rated())
		})
	}
}

func TestComputeAggregateIsIdempotent(t *testing.T) {
	vs := stars(1, 2, 5, 5)
	first := ComputeAggregate(vs)
	assert.Equal(t, first, ComputeAggregate(vs))
	assert.Equal(t, 3.3, first.Rating)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 2.5, RoundRating(2.45))
	assert.Equal(t, 3.3, RoundRating(10.0/3.0))
	assert.Equal(t, 1.0, RoundRating(1))
}

func TestValidStars(t *testing.T) {
	for s := 1; s <= 5; s++ {
		assert.True(t, ValidStars(s), "stars=%d", s)
	}
	assert.False(t, ValidStars(0))
	assert.False(t, ValidStars(6))
	assert.False(t, ValidStars(-1))
}

func TestHasValidated(t *testing.T) {
	vs := []entity.Validation{{ValidatorID: 10}, {ValidatorID: 20}}
	assert.True(t, HasValidated(vs, 10))
	assert.True(t, HasValidated(vs, 20))
	assert.False(t, HasValidated(vs, 30))
	assert.False(t, HasValidated(nil, 10))
}

func TestValidationRule(t *testing.T) {
	rule := NewValidationRule(2, 3)
	note := &entity.Note{UploadedByID: 1}

	rule.Apply(note, ComputeAggregate(stars(4)))
	assert.False(t, note.IsValidated)
	assert.Equal(t, 1, note.RatingCount)

	rule.Apply(note, ComputeAggregate(stars(4, 2)))
	assert.True(t, note.IsValidated)
	assert.Equal(t, 3.0, note.Rating)

	// The flag never moves back.
	NewValidationRule(10, 0).Apply(note, ComputeAggregate(stars(4, 2)))
	assert.True(t, note.IsValidated)

	assert.Equal(t, 3, rule.RewardFor(note, 2))
	assert.Equal(t, 0, rule.RewardFor(note, 1))
}

func TestNewValidationRuleClampsValues(t *testing.T) {
	rule := NewValidationRule(0, -4)
	assert.Equal(t, 1, rule.Threshold)
	assert.Equal(t, 0, rule.UploaderReward)
}
