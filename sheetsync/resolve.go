package sheetsync

import (
	"strings"

	"github.com/akshayWork-19/RightTutor-Backend/models"
	"github.com/sirupsen/logrus"
)

// ResolveMirror finds the mirror target for a module. An exact category
// match wins; a substring match on the name is the fallback. Returns nil
// when no target is configured.
//
// Two targets claiming the same category is a configuration error; the
// first one wins and the clash is logged so the operator can fix it.
func ResolveMirror(repos []models.Repository, moduleName string, logger *logrus.Logger) *models.Repository {
	module := strings.ToLower(strings.TrimSpace(moduleName))
	if module == "" {
		return nil
	}

	var match *models.Repository
	for i := range repos {
		category := strings.ToLower(strings.TrimSpace(repos[i].Category))
		if category == "" || category != module {
			continue
		}
		if match != nil {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"category": repos[i].Category,
					"kept":     match.Name,
					"ignored":  repos[i].Name,
				}).Error("duplicate mirror category, check repository configuration")
			}
			continue
		}
		match = &repos[i]
	}
	if match != nil {
		return match
	}

	for i := range repos {
		if strings.Contains(strings.ToLower(repos[i].Name), module) {
			return &repos[i]
		}
	}
	return nil
}
