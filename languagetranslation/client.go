// Package languagetranslation is the client for the Lexicore Language
// Translation v2 service: text translation between supported language
// pairs, language identification, and custom translation model management.
package languagetranslation

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lexicore/lexicore-go/core"
)

// DefaultURL is the public endpoint of the service.
const DefaultURL = "https://api.lexicore.cloud/language-translation/api"

const (
	pathTranslate             = "/v2/translate"
	pathIdentify              = "/v2/identify"
	pathIdentifiableLanguages = "/v2/identifiable_languages"
	pathModels                = "/v2/models"
)

// Client calls the Language Translation v2 service. It holds only immutable
// endpoint and credential configuration, so one Client may be shared across
// goroutines.
type Client struct {
	service *core.BaseService
}

// New builds a translation client. An empty Options.URL selects DefaultURL.
func New(opts core.Options) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		opts.URL = DefaultURL
	}
	service, err := core.NewBaseService(opts)
	if err != nil {
		return nil, fmt.Errorf("language translation client: %w", err)
	}
	return &Client{service: service}, nil
}

// translatePayload is the JSON body of a translate call. The service takes
// the text as an array of paragraphs even for a single string.
type translatePayload struct {
	Text    []string `json:"text"`
	Source  string   `json:"source,omitempty"`
	Target  string   `json:"target,omitempty"`
	ModelID string   `json:"model_id,omitempty"`
}

// TranslateOptions selects the translation pipeline for a translate call.
// ModelID takes precedence: when it is set, Source and Target are not sent.
type TranslateOptions struct {
	Source  string
	Target  string
	ModelID string
}

// Translate submits text for translation. Either a model id or a target
// language must be supplied.
func (c *Client) Translate(text string, opts TranslateOptions) *core.Call[TranslationResult] {
	if err := core.RequireNonEmpty("text", text); err != nil {
		return core.FailCall[TranslationResult](err)
	}
	if strings.TrimSpace(opts.ModelID) == "" && strings.TrimSpace(opts.Target) == "" {
		return core.FailCall[TranslationResult](&core.ValidationError{
			Field:  "options",
			Reason: "must supply a model id or a target language",
		})
	}

	payload := translatePayload{Text: []string{text}}
	if modelID := strings.TrimSpace(opts.ModelID); modelID != "" {
		payload.ModelID = modelID
	} else {
		payload.Source = strings.TrimSpace(opts.Source)
		payload.Target = strings.TrimSpace(opts.Target)
	}

	req := core.NewRequest(http.MethodPost, pathTranslate).
		Accept("application/json").
		JSONBody(payload)
	return core.Exec(c.service, req, core.ObjectConverter[TranslationResult]())
}

// Identify detects the language the given text is written in. Languages are
// returned in descending confidence order.
func (c *Client) Identify(text string) *core.Call[[]IdentifiedLanguage] {
	if err := core.RequireNonEmpty("text", text); err != nil {
		return core.FailCall[[]IdentifiedLanguage](err)
	}
	req := core.NewRequest(http.MethodPost, pathIdentify).
		Accept("application/json").
		TextBody(text)
	return core.Exec(c.service, req, core.EnvelopeConverter[IdentifiedLanguage]("languages"))
}

// ListIdentifiableLanguages lists the languages Identify can detect.
func (c *Client) ListIdentifiableLanguages() *core.Call[[]IdentifiableLanguage] {
	req := core.NewRequest(http.MethodGet, pathIdentifiableLanguages)
	return core.Exec(c.service, req, core.EnvelopeConverter[IdentifiableLanguage]("languages"))
}

// ListModelsOptions filters a model listing. Nil/blank filters are omitted
// from the request.
type ListModelsOptions struct {
	Source  string
	Target  string
	Default *bool
}

// ListModels lists available translation models, optionally filtered by
// source language, target language, and default status.
func (c *Client) ListModels(opts ListModelsOptions) *core.Call[[]TranslationModel] {
	req := core.NewRequest(http.MethodGet, pathModels).
		QueryOptional("source", opts.Source).
		QueryOptional("target", opts.Target).
		QueryBool("default", opts.Default)
	return core.Exec(c.service, req, core.EnvelopeConverter[TranslationModel]("models"))
}

// TrainingFile is one uploaded training artifact for a custom model.
type TrainingFile struct {
	Name    string
	Content io.Reader
}

// CreateModelOptions configures a create-model call. BaseModelID is
// required; the three training files are each optional and only the ones
// supplied become form parts.
type CreateModelOptions struct {
	BaseModelID       string
	Name              string
	ForcedGlossary    *TrainingFile
	MonolingualCorpus *TrainingFile
	ParallelCorpus    *TrainingFile
}

// CreateModel trains a custom translation model on top of a base model.
func (c *Client) CreateModel(opts CreateModelOptions) *core.Call[TranslationModel] {
	if err := core.RequireNonEmpty("base model id", opts.BaseModelID); err != nil {
		return core.FailCall[TranslationModel](err)
	}

	req := core.NewRequest(http.MethodPost, pathModels).
		Query("base_model_id", strings.TrimSpace(opts.BaseModelID)).
		QueryOptional("name", opts.Name).
		MultipartBody(
			filePart("forced_glossary", opts.ForcedGlossary),
			filePart("monolingual_corpus", opts.MonolingualCorpus),
			filePart("parallel_corpus", opts.ParallelCorpus),
		)
	return core.Exec(c.service, req, core.ObjectConverter[TranslationModel]())
}

// GetModel fetches one translation model by id.
func (c *Client) GetModel(modelID string) *core.Call[TranslationModel] {
	if err := core.RequireNonEmpty("model id", modelID); err != nil {
		return core.FailCall[TranslationModel](err)
	}
	req := core.NewRequest(http.MethodGet, modelPath(modelID))
	return core.Exec(c.service, req, core.ObjectConverter[TranslationModel]())
}

// DeleteModel deletes a custom translation model.
func (c *Client) DeleteModel(modelID string) *core.Call[core.Void] {
	if err := core.RequireNonEmpty("model id", modelID); err != nil {
		return core.FailCall[core.Void](err)
	}
	req := core.NewRequest(http.MethodDelete, modelPath(modelID))
	return core.Exec(c.service, req, core.VoidConverter())
}

func modelPath(modelID string) string {
	return pathModels + "/" + url.PathEscape(strings.TrimSpace(modelID))
}

func filePart(field string, file *TrainingFile) core.FilePart {
	if file == nil {
		return core.FilePart{Field: field}
	}
	return core.FilePart{Field: field, Filename: file.Name, Content: file.Content}
}
