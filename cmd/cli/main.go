package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/pep299/review-summarizer/internal/application"
	"github.com/pep299/review-summarizer/internal/aspect"
	"github.com/pep299/review-summarizer/internal/infrastructure"
	"github.com/pep299/review-summarizer/internal/model"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "review-summarizer",
		Usage:     "summarize product reviews weighted by the aspects you care about",
		Version:   fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		Writer:    out,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:      "summarize",
				Usage:     "generate a personalized summary of a review CSV",
				ArgsUsage: "<reviews.csv | gs://bucket/object | ->",
				Flags: append(preferenceFlags(),
					&cli.BoolFlag{Name: "json", Usage: "print the raw JSON result"},
				),
				Action: summarizeAction,
			},
			{
				Name:      "score",
				Usage:     "rank reviews by aspect relevance without calling the model",
				ArgsUsage: "<reviews.csv | gs://bucket/object | ->",
				Flags: append(preferenceFlags(),
					&cli.IntFlag{Name: "top", Value: 10, Usage: "number of reviews to print, 0 for all"},
					&cli.BoolFlag{Name: "json", Usage: "print the raw JSON result"},
				),
				Action: scoreAction,
			},
			{
				Name:  "aspects",
				Usage: "list the aspects and their keyword cues",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "lexicon", EnvVars: []string{"ASPECT_LEXICON_FILE"}, Usage: "YAML lexicon override"},
				},
				Action: aspectsAction,
			},
		},
	}
}

func preferenceFlags() []cli.Flag {
	var flags []cli.Flag
	for _, a := range model.Aspects() {
		flags = append(flags, &cli.Float64Flag{
			Name:  strings.ReplaceAll(string(a), "_", "-"),
			Value: model.DefaultPreferenceValue,
			Usage: fmt.Sprintf("importance of %s, between 0 and 1", strings.ToLower(a.Label())),
		})
	}
	return flags
}

func preferenceFromFlags(c *cli.Context) model.Preference {
	pref := make(model.Preference, len(model.Aspects()))
	for _, a := range model.Aspects() {
		pref[a] = c.Float64(strings.ReplaceAll(string(a), "_", "-"))
	}
	return pref
}

func openInput(ctx context.Context, c *cli.Context) (io.ReadCloser, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input, got %d", c.NArg())
	}
	return infrastructure.OpenSource(ctx, c.Args().First())
}

func summarizeAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := application.New(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	in, err := openInput(ctx, c)
	if err != nil {
		return err
	}
	defer in.Close()

	result, err := app.Service.Summarize(ctx, in, preferenceFromFlags(c))
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("json") {
		return writeJSON(out, result)
	}

	fmt.Fprintf(out, "%s\n\n", result.Summary.Text)
	fmt.Fprintf(out, "Reviews: %d loaded, %d summarized, %d skipped (average rating %.1f)\n\n",
		result.Summary.ReviewsTotal, result.Summary.ReviewsSelected, len(result.Report.Skipped), result.Summary.AverageRating)
	fmt.Fprintln(out, "Aspect coverage")
	fmt.Fprint(out, renderCoverage(result.Summary.AspectCoverage))
	fmt.Fprintln(out, "\nMentions in summary")
	fmt.Fprint(out, renderMentions(result.Summary.Mentions))
	return nil
}

func scoreAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := application.NewLocal(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	in, err := openInput(ctx, c)
	if err != nil {
		return err
	}
	defer in.Close()

	result, err := app.Service.Score(ctx, in, preferenceFromFlags(c))
	if err != nil {
		return err
	}

	reviews := result.Reviews
	if top := c.Int("top"); top > 0 && top < len(reviews) {
		reviews = reviews[:top]
	}

	out := c.App.Writer
	if c.Bool("json") {
		result.Reviews = reviews
		return writeJSON(out, result)
	}

	for _, r := range reviews {
		fmt.Fprintf(out, "%3d. [line %d, weight %.3f] %s\n     %s\n",
			r.Rank, r.Line, r.Weight, truncate(r.Text, 100), aspect.Describe(r.Scores))
	}
	return nil
}

type aspectListing struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

func aspectsAction(c *cli.Context) error {
	lexicon := aspect.DefaultLexicon()
	if path := c.String("lexicon"); path != "" {
		var err error
		if lexicon, err = aspect.LoadLexicon(path); err != nil {
			return err
		}
	}

	var listing []aspectListing
	for _, a := range model.Aspects() {
		listing = append(listing, aspectListing{Name: string(a), Label: a.Label(), Keywords: lexicon.Keywords(a)})
	}

	data, err := yaml.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal aspects: %w", err)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
