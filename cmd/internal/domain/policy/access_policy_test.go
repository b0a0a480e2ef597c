package policy

import (
	"studynotes/cmd/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	note := &entity.Note{CreditsRequired: 10}

	assert.False(t, CanAccess(&entity.User{Credits: 9}, note))
	assert.True(t, CanAccess(&entity.User{Credits: 10}, note))
	assert.True(t, CanAccess(&entity.User{Credits: 11}, note))
	assert.True(t, CanAccess(&entity.User{}, &entity.Note{}))
}

func TestCanAffordDownload(t *testing.T) {
	assert.False(t, CanAffordDownload(4))
	assert.True(t, CanAffordDownload(5))
	assert.True(t, CanAffordDownload(100))
}

func TestComments(t *testing.T) {
	vs := []entity.Validation{
		{Comment: "clear diagrams"},
		{Comment: ""},
		{Comment: "   "},
		{Comment: "missing unit 3"},
	}
	assert.Equal(t, []string{"clear diagrams", "missing unit 3"}, Comments(vs))
	assert.Empty(t, Comments(nil))
}
