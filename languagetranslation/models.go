package languagetranslation

// TranslationModel is a server-side translation pipeline. Every value is an
// immutable snapshot of server state at fetch time; nothing is cached or
// reconciled locally.
type TranslationModel struct {
	ModelID      string `json:"model_id"`
	BaseModelID  string `json:"base_model_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Source       string `json:"source,omitempty"`
	Target       string `json:"target,omitempty"`
	Domain       string `json:"domain,omitempty"`
	Customizable bool   `json:"customizable,omitempty"`
	DefaultModel bool   `json:"default_model,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Translation model statuses reported by the service.
const (
	ModelStatusAvailable = "available"
	ModelStatusTraining  = "training"
	ModelStatusError     = "error"
)

// Translation is one translated paragraph.
type Translation struct {
	Translation string `json:"translation"`
}

// TranslationResult is the outcome of one translate call.
type TranslationResult struct {
	WordCount      int           `json:"word_count"`
	CharacterCount int           `json:"character_count"`
	Translations   []Translation `json:"translations"`
}

// IdentifiableLanguage is a language the service can identify.
type IdentifiableLanguage struct {
	Language string `json:"language"`
	Name     string `json:"name,omitempty"`
}

// IdentifiedLanguage is a language detected in submitted text, with the
// service's confidence in the detection.
type IdentifiedLanguage struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}
