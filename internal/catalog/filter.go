package catalog

import "github.com/jaekwang-park/plantcare-api/internal/model"

// Filter returns the plants tagged with the given environment key, keeping
// their original order. The "all" key returns every plant. The result never
// aliases the input slice.
func Filter(plants []model.Plant, environment string) []model.Plant {
	out := make([]model.Plant, 0, len(plants))
	if environment == model.EnvironmentAll {
		return append(out, plants...)
	}
	for _, p := range plants {
		if p.InEnvironment(environment) {
			out = append(out, p)
		}
	}
	return out
}
