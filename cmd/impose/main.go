package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/booklet-imposer/internal/config"
	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/pagecount"
	"github.com/eugenenazirov/booklet-imposer/internal/render"
)

const (
	exitOK           = 0
	exitInvalidInput = 1
	exitUsage        = 2
)

// document is the machine readable output of the json and yaml formats.
type document struct {
	imposition.Result `yaml:",inline"`
	BlankSlots        []int  `json:"blankSlots" yaml:"blankSlots"`
	Query             string `json:"query" yaml:"query"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("impose", "Print the sheet-by-sheet page layout of a saddle-stitch booklet")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	pagesArg := app.Arg("pages", "Number of pages in the booklet").Required().String()
	format := app.Flag("format", "Output format: text, json or yaml").Short('f').Default("text").Enum("text", "json", "yaml")
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	lang := app.Flag("lang", "Message language (ja or en)").String()
	maxPages := app.Flag("max-pages", "Largest page count accepted (0 keeps the configured value)").Default("0").Int()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "impose: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(&config.CLIOverrides{
		ConfigFile: *configFile,
		Language:   lang,
		MaxPages:   maxPages,
	})
	if err != nil {
		fmt.Fprintf(stderr, "impose: %v\n", err)
		return exitUsage
	}

	localizer, err := messages.New(cfg.DefaultLanguage)
	if err != nil {
		fmt.Fprintf(stderr, "impose: %v\n", err)
		return exitUsage
	}
	p := localizer.Printer("", "")

	pages, err := pagecount.Parse(*pagesArg, cfg.MaxPages)
	if err != nil {
		fmt.Fprintln(stderr, messages.ErrorText(p, err, cfg.MaxPages))
		return exitInvalidInput
	}

	result, err := imposition.Compute(pages)
	if err != nil {
		fmt.Fprintln(stderr, messages.ErrorText(p, err, cfg.MaxPages))
		return exitInvalidInput
	}

	if err := write(stdout, *format, result, render.NewView(result, p)); err != nil {
		fmt.Fprintf(stderr, "impose: %v\n", err)
		return exitUsage
	}
	return exitOK
}

func write(w io.Writer, format string, result imposition.Result, view render.View) error {
	doc := document{Result: result, BlankSlots: blankSlots(result), Query: view.Query}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return render.Text(w, view)
	}
}

func blankSlots(r imposition.Result) []int {
	blanks := make([]int, 0, r.BlankCount)
	for slot := r.Pages + 1; slot <= r.TotalPages; slot++ {
		blanks = append(blanks, slot)
	}
	return blanks
}
