package emulator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lexicore/lexicore-go/languagetranslation"
)

var errModelNotFound = fmt.Errorf("model not found")
var errModelNotDeletable = fmt.Errorf("base models cannot be deleted")

// modelStore is the emulator's in-memory stand-in for the platform's model
// registry. It is seeded with the default base models and guards all access
// with a mutex since echo serves requests concurrently.
type modelStore struct {
	mu     sync.Mutex
	models map[string]languagetranslation.TranslationModel
}

func newModelStore() *modelStore {
	store := &modelStore{models: map[string]languagetranslation.TranslationModel{}}
	for _, pair := range [][2]string{
		{"en", "es"}, {"es", "en"},
		{"en", "fr"}, {"fr", "en"},
		{"en", "de"}, {"de", "en"},
		{"en", "pt"}, {"pt", "en"},
	} {
		id := pair[0] + "-" + pair[1]
		store.models[id] = languagetranslation.TranslationModel{
			ModelID:      id,
			Source:       pair[0],
			Target:       pair[1],
			Domain:       "news",
			Customizable: true,
			DefaultModel: true,
			Owner:        "",
			Status:       languagetranslation.ModelStatusAvailable,
		}
	}
	return store
}

func (s *modelStore) list(source, target string, defaultOnly *bool) []languagetranslation.TranslationModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	models := make([]languagetranslation.TranslationModel, 0, len(s.models))
	for _, model := range s.models {
		if source != "" && model.Source != source {
			continue
		}
		if target != "" && model.Target != target {
			continue
		}
		if defaultOnly != nil && model.DefaultModel != *defaultOnly {
			continue
		}
		models = append(models, model)
	}
	return models
}

func (s *modelStore) get(modelID string) (languagetranslation.TranslationModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, ok := s.models[modelID]
	if !ok {
		return languagetranslation.TranslationModel{}, errModelNotFound
	}
	return model, nil
}

func (s *modelStore) create(baseModelID, name string) (languagetranslation.TranslationModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.models[baseModelID]
	if !ok || !base.DefaultModel {
		return languagetranslation.TranslationModel{}, fmt.Errorf("base model %q not found", baseModelID)
	}

	id := baseModelID + "-" + strings.Split(uuid.NewString(), "-")[0]
	model := languagetranslation.TranslationModel{
		ModelID:      id,
		BaseModelID:  baseModelID,
		Name:         name,
		Source:       base.Source,
		Target:       base.Target,
		Domain:       base.Domain,
		Customizable: false,
		DefaultModel: false,
		Owner:        "emulator",
		Status:       languagetranslation.ModelStatusAvailable,
	}
	s.models[id] = model
	return model, nil
}

func (s *modelStore) delete(modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, ok := s.models[modelID]
	if !ok {
		return errModelNotFound
	}
	if model.DefaultModel {
		return errModelNotDeletable
	}
	delete(s.models, modelID)
	return nil
}
