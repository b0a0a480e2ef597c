package policy

import (
	"strings"
	"studynotes/cmd/internal/domain/entity"
)

// The credit economy.
const (
	// ViewReward is credited to a viewer every time a note is opened.
	ViewReward = 2

	// DownloadCost is debited from a viewer for every download.
	DownloadCost = 5
)

// CanAccess reports whether the viewer holds enough credits to unlock the note.
func CanAccess(viewer *entity.User, note *entity.Note) bool {
	return viewer.Credits >= note.CreditsRequired
}

func CanAffordDownload(balance int) bool {
	return balance >= DownloadCost
}

// Comments extracts the non-empty comments of all validations, in order.
func Comments(validations []entity.Validation) []string {
	comments := make([]string, 0, len(validations))
	for _, v := range validations {
		if strings.TrimSpace(v.Comment) == "" {
			continue
		}
		comments = append(comments, v.Comment)
	}
	return comments
}
