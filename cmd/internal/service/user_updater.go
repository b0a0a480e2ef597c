package service

import (
	"studynotes/cmd/internal/domain/entity"
)

// userUpdater acts as a "Change Set" context.
// It tracks if a save is actually needed.
type userUpdater struct {
	target *entity.User

	// State
	dirty bool
}

// setProfileString handles standard string fields (Name, Department)
func (u *userUpdater) setProfileString(newVal *string, targetField *string) {
	if newVal == nil || *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}

func (u *userUpdater) setProfileInt(newVal *int, targetField *int) {
	if newVal == nil || *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}
