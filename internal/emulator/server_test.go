package emulator

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lexicore/lexicore-go/core"
	"github.com/lexicore/lexicore-go/languagetranslation"
	"github.com/lexicore/lexicore-go/texttospeech"
)

func newEmulatorServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(New(zerolog.Nop(), opts).Handler())
	t.Cleanup(server.Close)
	return server
}

func newTranslationClient(t *testing.T, url string, clientOpts core.Options) *languagetranslation.Client {
	t.Helper()

	clientOpts.URL = url
	client, err := languagetranslation.New(clientOpts)
	if err != nil {
		t.Fatalf("build translation client: %v", err)
	}
	return client
}

func TestTranslateByLanguagePair(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	result, err := client.Translate("hello world", languagetranslation.TranslateOptions{Source: "en", Target: "es"}).Do(context.Background())
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.WordCount != 2 || result.CharacterCount != 11 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Translations) != 1 || result.Translations[0].Translation != "[es] hello world" {
		t.Fatalf("unexpected translations: %+v", result.Translations)
	}
}

func TestTranslateByModelResolvesTarget(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	result, err := client.Translate("good morning", languagetranslation.TranslateOptions{ModelID: "en-fr"}).Do(context.Background())
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.Translations[0].Translation != "[fr] good morning" {
		t.Fatalf("unexpected translation: %+v", result.Translations)
	}
}

func TestTranslateByUnknownModelIs404(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	_, err := client.Translate("hello", languagetranslation.TranslateOptions{ModelID: "no-such-model"}).Do(context.Background())
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
}

func TestTranslateSchemaRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})

	for _, payload := range []string{
		`{"target":"es"}`,
		`{"text":[]}`,
		`{"text":[""],"target":"es"}`,
		`{"text":["hi"],"target":"es","extra":true}`,
	} {
		resp, err := http.Post(server.URL+"/v2/translate", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("post payload %q: %v", payload, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", payload, resp.StatusCode)
		}
	}
}

func TestModelLifecycle(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})
	ctx := context.Background()

	created, err := client.CreateModel(languagetranslation.CreateModelOptions{
		BaseModelID:    "en-es",
		Name:           "legal-en-es",
		ForcedGlossary: &languagetranslation.TrainingFile{Name: "glossary.tmx", Content: strings.NewReader("terms")},
	}).Do(ctx)
	if err != nil {
		t.Fatalf("create model: %v", err)
	}
	if created.BaseModelID != "en-es" || created.Name != "legal-en-es" || created.DefaultModel {
		t.Fatalf("unexpected created model: %+v", created)
	}

	fetched, err := client.GetModel(created.ModelID).Do(ctx)
	if err != nil {
		t.Fatalf("get model: %v", err)
	}
	if fetched.ModelID != created.ModelID || fetched.Target != "es" {
		t.Fatalf("unexpected fetched model: %+v", fetched)
	}

	customOnly := false
	models, err := client.ListModels(languagetranslation.ListModelsOptions{Source: "en", Target: "es", Default: &customOnly}).Do(ctx)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 1 || models[0].ModelID != created.ModelID {
		t.Fatalf("unexpected custom model listing: %+v", models)
	}

	if _, err := client.DeleteModel(created.ModelID).Do(ctx); err != nil {
		t.Fatalf("delete model: %v", err)
	}
	_, err = client.GetModel(created.ModelID).Do(ctx)
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func TestDeleteBaseModelIsRejected(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	_, err := client.DeleteModel("en-es").Do(context.Background())
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestIdentifyThroughSDK(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	languages, err := client.Identify("this is quite obviously an English sentence with many words").Do(context.Background())
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if len(languages) == 0 || languages[0].Language != "en" {
		t.Fatalf("unexpected identification: %+v", languages)
	}
}

func TestIdentifiableLanguagesListing(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client := newTranslationClient(t, server.URL, core.Options{})

	languages, err := client.ListIdentifiableLanguages().Do(context.Background())
	if err != nil {
		t.Fatalf("list identifiable languages: %v", err)
	}
	found := false
	for _, language := range languages {
		if language.Language == "en" && language.Name == "English" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected English in %+v", languages)
	}
}

func TestSynthesizeProducesFormatMagic(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client, err := texttospeech.New(core.Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build tts client: %v", err)
	}

	cases := map[texttospeech.AudioFormat][]byte{
		texttospeech.FormatOGG:  []byte("OggS"),
		texttospeech.FormatWAV:  []byte("RIFF"),
		texttospeech.FormatFLAC: []byte("fLaC"),
	}
	for format, magic := range cases {
		audio, err := client.Synthesize("hello", texttospeech.SynthesizeOptions{Voice: "en-US_Michael", Format: format}).Do(context.Background())
		if err != nil {
			t.Fatalf("%s: synthesize: %v", format, err)
		}
		if !bytes.HasPrefix(audio, magic) {
			t.Fatalf("%s: expected %q prefix, got %q", format, magic, audio[:4])
		}
	}
}

func TestSynthesizeUnknownVoiceIs404(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client, err := texttospeech.New(core.Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build tts client: %v", err)
	}

	_, err = client.Synthesize("hello", texttospeech.SynthesizeOptions{Voice: "xx-XX_Nobody"}).Do(context.Background())
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
}

func TestVoicesListing(t *testing.T) {
	t.Parallel()

	server := newEmulatorServer(t, Options{})
	client, err := texttospeech.New(core.Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build tts client: %v", err)
	}

	voices, err := client.ListVoices().Do(context.Background())
	if err != nil {
		t.Fatalf("list voices: %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("expected at least one voice")
	}
}

func TestBasicAuthGate(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("sesame")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	server := newEmulatorServer(t, Options{Username: "dev", PasswordHash: hash})

	anonymous := newTranslationClient(t, server.URL, core.Options{})
	_, err = anonymous.ListIdentifiableLanguages().Do(context.Background())
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	authed := newTranslationClient(t, server.URL, core.Options{Username: "dev", Password: "sesame"})
	if _, err := authed.ListIdentifiableLanguages().Do(context.Background()); err != nil {
		t.Fatalf("authenticated listing: %v", err)
	}

	wrong := newTranslationClient(t, server.URL, core.Options{Username: "dev", Password: "wrong"})
	_, err = wrong.ListIdentifiableLanguages().Do(context.Background())
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError for wrong password, got %v", err)
	}
}
