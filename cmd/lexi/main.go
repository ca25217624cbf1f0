// Command lexi is a command-line front end for the Lexicore natural
// language services: translation, language identification and speech
// synthesis. Credentials and endpoints come from the environment (see
// internal/config); an optional .env file is loaded first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lexicore/lexicore-go/core"
	"github.com/lexicore/lexicore-go/internal/cli"
	"github.com/lexicore/lexicore-go/internal/config"
	"github.com/lexicore/lexicore-go/internal/langcode"
	"github.com/lexicore/lexicore-go/internal/logging"
	"github.com/lexicore/lexicore-go/langdetect"
	"github.com/lexicore/lexicore-go/languagetranslation"
	"github.com/lexicore/lexicore-go/texttospeech"
)

const usage = `Usage: lexi [--env path] <command> [flags] [args]

Commands:
  translate   Translate text (--target or --model required)
  identify    Identify the language of text (--offline for local detection)
  languages   List identifiable languages
  models      Manage translation models (list|get|create|delete)
  voices      List synthesis voices
  synthesize  Render text as audio (--out required)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lexi:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func run(args []string) error {
	fs := flag.NewFlagSet("lexi", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	envLoader := cli.AddEnvFlag(fs, ".env")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("a command is required")
	}
	if _, err := envLoader.Load(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel, "lexi")
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "translate":
		return a.translate(ctx, rest)
	case "identify":
		return a.identify(ctx, rest)
	case "languages":
		return a.languages(ctx)
	case "models":
		return a.models(ctx, rest)
	case "voices":
		return a.voices(ctx)
	case "synthesize":
		return a.synthesize(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) clientOptions(url string) core.Options {
	return core.Options{
		URL:        url,
		Username:   a.cfg.Username,
		Password:   a.cfg.Password,
		APIKey:     a.cfg.APIKey,
		HTTPClient: &http.Client{Timeout: a.cfg.HTTPTimeout},
		Logger:     &a.logger,
	}
}

func (a *app) translationClient() (*languagetranslation.Client, error) {
	return languagetranslation.New(a.clientOptions(a.cfg.TranslationURL))
}

func (a *app) ttsClient() (*texttospeech.Client, error) {
	return texttospeech.New(a.clientOptions(a.cfg.TextToSpeechURL))
}

func (a *app) translate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	source := fs.String("source", "", "Source language code")
	target := fs.String("target", "", "Target language code")
	modelID := fs.String("model", "", "Translation model id (overrides --source/--target)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	client, err := a.translationClient()
	if err != nil {
		return err
	}
	result, err := client.Translate(text, languagetranslation.TranslateOptions{
		Source:  langcode.Primary(*source),
		Target:  langcode.Primary(*target),
		ModelID: *modelID,
	}).Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *app) identify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("identify", flag.ContinueOnError)
	offline := fs.Bool("offline", false, "Detect locally without a network call")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	if *offline {
		identified := langdetect.Identify(text)
		if identified == nil {
			return fmt.Errorf("not enough text to identify a language")
		}
		return printJSON(identified)
	}

	client, err := a.translationClient()
	if err != nil {
		return err
	}
	identified, err := client.Identify(text).Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(identified)
}

func (a *app) languages(ctx context.Context) error {
	client, err := a.translationClient()
	if err != nil {
		return err
	}
	languages, err := client.ListIdentifiableLanguages().Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(languages)
}

func (a *app) models(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("models requires a subcommand: list, get, create or delete")
	}
	client, err := a.translationClient()
	if err != nil {
		return err
	}

	subcommand, rest := args[0], args[1:]
	switch subcommand {
	case "list":
		return a.listModels(ctx, client, rest)
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("models get requires exactly one model id")
		}
		model, err := client.GetModel(rest[0]).Do(ctx)
		if err != nil {
			return err
		}
		return printJSON(model)
	case "create":
		return a.createModel(ctx, client, rest)
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("models delete requires exactly one model id")
		}
		if _, err := client.DeleteModel(rest[0]).Do(ctx); err != nil {
			return err
		}
		a.logger.Info().Str("model_id", rest[0]).Msg("model deleted")
		return nil
	default:
		return fmt.Errorf("unknown models subcommand %q", subcommand)
	}
}

func (a *app) listModels(ctx context.Context, client *languagetranslation.Client, args []string) error {
	fs := flag.NewFlagSet("models list", flag.ContinueOnError)
	source := fs.String("source", "", "Filter by source language")
	target := fs.String("target", "", "Filter by target language")
	defaultFilter := fs.String("default", "", "Filter by default status (true or false)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := languagetranslation.ListModelsOptions{
		Source: langcode.Primary(*source),
		Target: langcode.Primary(*target),
	}
	switch *defaultFilter {
	case "":
	case "true":
		value := true
		opts.Default = &value
	case "false":
		value := false
		opts.Default = &value
	default:
		return fmt.Errorf("--default must be true or false, got %q", *defaultFilter)
	}

	models, err := client.ListModels(opts).Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(models)
}

func (a *app) createModel(ctx context.Context, client *languagetranslation.Client, args []string) error {
	fs := flag.NewFlagSet("models create", flag.ContinueOnError)
	baseModelID := fs.String("base-model-id", "", "Base model to customize (required)")
	name := fs.String("name", "", "Custom model name")
	forcedGlossary := fs.String("forced-glossary", "", "Path to a forced glossary file")
	monolingualCorpus := fs.String("monolingual-corpus", "", "Path to a monolingual corpus file")
	parallelCorpus := fs.String("parallel-corpus", "", "Path to a parallel corpus file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := languagetranslation.CreateModelOptions{BaseModelID: *baseModelID, Name: *name}
	var closers []*os.File
	defer func() {
		for _, file := range closers {
			_ = file.Close()
		}
	}()
	for _, binding := range []struct {
		path string
		dest **languagetranslation.TrainingFile
	}{
		{*forcedGlossary, &opts.ForcedGlossary},
		{*monolingualCorpus, &opts.MonolingualCorpus},
		{*parallelCorpus, &opts.ParallelCorpus},
	} {
		if binding.path == "" {
			continue
		}
		file, err := os.Open(binding.path)
		if err != nil {
			return fmt.Errorf("open training file: %w", err)
		}
		closers = append(closers, file)
		*binding.dest = &languagetranslation.TrainingFile{Name: file.Name(), Content: file}
	}

	model, err := client.CreateModel(opts).Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(model)
}

func (a *app) voices(ctx context.Context) error {
	client, err := a.ttsClient()
	if err != nil {
		return err
	}
	voices, err := client.ListVoices().Do(ctx)
	if err != nil {
		return err
	}
	return printJSON(voices)
}

func (a *app) synthesize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("synthesize", flag.ContinueOnError)
	voice := fs.String("voice", "", "Synthesis voice name")
	formatName := fs.String("format", "wav", "Audio format: ogg, wav or flac")
	out := fs.String("out", "", "Output file path (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("--out is required")
	}
	format, err := texttospeech.ParseAudioFormat(*formatName)
	if err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")

	client, err := a.ttsClient()
	if err != nil {
		return err
	}
	audio, err := client.Synthesize(text, texttospeech.SynthesizeOptions{Voice: *voice, Format: format}).Do(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, audio, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	a.logger.Info().Str("path", *out).Int("bytes", len(audio)).Msg("audio written")
	return nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
