// Command llmextract extracts structured content from LLM output supplied on
// stdin or as a file argument.
//
// Usage:
//
//	llmextract json < response.txt
//	llmextract code --language python response.txt
//	llmextract html --markdown page.txt
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/leofalp/llmextract/core/extract"
)

func main() {
	// A .env file can seed the LLMEXTRACT_* variables read by the flags.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	app := &cli.App{
		Name:  "llmextract",
		Usage: "extract JSON, XML, HTML, or code from LLM output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file with per-format defaults",
				EnvVars: []string{"LLMEXTRACT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			jsonCommand(),
			xmlCommand(),
			htmlCommand(),
			codeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
}

func jsonCommand() *cli.Command {
	return &cli.Command{
		Name:      "json",
		Usage:     "extract a JSON object or array",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "disable repair of malformed JSON"},
			&cli.BoolFlag{Name: "compact", Usage: "print compact instead of indented JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, text, err := setup(c)
			if err != nil {
				return err
			}
			strict := cfg.JSON.Strict || c.Bool("strict")

			e := extract.NewJSONExtractor(extract.JSONStrict(strict))
			value, err := e.Extract(text)
			if err != nil {
				return err
			}

			var out []byte
			if c.Bool("compact") {
				out, err = json.Marshal(value)
			} else {
				out, err = json.MarshalIndent(value, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func xmlCommand() *cli.Command {
	return &cli.Command{
		Name:      "xml",
		Usage:     "extract an XML document or fragment",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-validate", Usage: "return the candidate without checking well-formedness"},
			&cli.BoolFlag{Name: "no-recover", Usage: "fail on malformed XML instead of repairing it"},
		},
		Action: func(c *cli.Context) error {
			cfg, text, err := setup(c)
			if err != nil {
				return err
			}
			validate := *cfg.XML.Validate && !c.Bool("no-validate")
			repair := *cfg.XML.Recover && !c.Bool("no-recover")

			e := extract.NewXMLExtractor(
				extract.XMLValidate(validate),
				extract.XMLRecover(repair),
			)
			content, err := e.Extract(text)
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
}

func htmlCommand() *cli.Command {
	return &cli.Command{
		Name:      "html",
		Usage:     "extract an HTML document or fragment",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clean", Usage: "normalize the extracted HTML"},
			&cli.BoolFlag{Name: "validate", Usage: "require the candidate to parse"},
			&cli.BoolFlag{Name: "markdown", Usage: "convert the extracted HTML to markdown"},
			&cli.BoolFlag{Name: "fragments", Usage: "list every HTML fragment instead of the best candidate"},
		},
		Action: func(c *cli.Context) error {
			cfg, text, err := setup(c)
			if err != nil {
				return err
			}

			e := extract.NewHTMLExtractor(
				extract.HTMLClean(cfg.HTML.Clean || c.Bool("clean")),
				extract.HTMLValidate(cfg.HTML.Validate || c.Bool("validate")),
			)

			if c.Bool("fragments") {
				for _, fragment := range e.ExtractAllFragments(text) {
					fmt.Println(fragment)
				}
				return nil
			}
			if c.Bool("markdown") {
				md, err := e.ExtractMarkdown(text)
				if err != nil {
					return err
				}
				fmt.Println(md)
				return nil
			}

			content, err := e.Extract(text)
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
}

func codeCommand() *cli.Command {
	return &cli.Command{
		Name:      "code",
		Usage:     "extract fenced or unfenced source code",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "only extract blocks fenced with this language",
				EnvVars: []string{"LLMEXTRACT_LANGUAGE"},
			},
			&cli.BoolFlag{Name: "strict", Usage: "only extract fenced blocks"},
			&cli.BoolFlag{Name: "all", Usage: "list every fenced block with its language as JSON"},
			&cli.BoolFlag{Name: "detect", Usage: "print the detected language instead of the code"},
		},
		Action: func(c *cli.Context) error {
			cfg, text, err := setup(c)
			if err != nil {
				return err
			}
			language := cfg.Code.Language
			if c.IsSet("language") {
				language = c.String("language")
			}

			e := extract.NewCodeBlockExtractor(
				extract.CodeLanguage(language),
				extract.CodeStrict(cfg.Code.Strict || c.Bool("strict")),
			)

			if c.Bool("all") {
				out, err := json.MarshalIndent(e.ExtractAllBlocks(text), "", "  ")
				if err != nil {
					return fmt.Errorf("encoding blocks: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			code, err := e.Extract(text)
			if err != nil {
				return err
			}
			if c.Bool("detect") {
				lang, ok := e.DetectLanguage(code)
				if !ok {
					return fmt.Errorf("language could not be determined (supported: %v)", extract.SupportedLanguages())
				}
				fmt.Println(lang)
				return nil
			}
			fmt.Println(code)
			return nil
		},
	}
}

// setup loads the config file and reads the input text for a subcommand.
func setup(c *cli.Context) (Config, string, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return cfg, "", err
	}
	text, err := readInput(c)
	if err != nil {
		return cfg, "", err
	}
	log.Debug().Int("bytes", len(text)).Str("command", c.Command.Name).Msg("input read")
	return cfg, text, nil
}

// readInput returns the contents of the file argument, or stdin when no
// argument is given.
func readInput(c *cli.Context) (string, error) {
	if path := c.Args().First(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading input %s: %w", path, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
