// Command textsplice rewrites the text content of an HTML document against an
// ordered set of pattern/replacement rules, leaving markup structure intact.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/textsplice/html"
	"github.com/chrisuehlinger/textsplice/splice"
)

func main() {
	in := flag.String("in", "", "input HTML file (default: stdin)")
	out := flag.String("out", "", "output file (default: stdout)")
	rulesPath := flag.String("rules", "", "JSON rules file")
	find := flag.String("find", "", "pattern for single-rule mode")
	replaceWith := flag.String("replace", "", "replacement text for single-rule mode")
	regex := flag.Bool("regex", false, "treat -find as a regular expression")
	minLen := flag.Int("min", 0, "skip text fragments shorter than this many characters")
	group := flag.Int("group", 0, "paced mode: text nodes per group (0 = one synchronous pass)")
	interval := flag.Duration("interval", splice.DefaultInterval, "paced mode: delay between groups")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *rulesPath == "" && *find == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -in page.html -find cat -replace dog\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -in page.html -rules rules.json -group 50\n", os.Args[0])
		os.Exit(2)
	}

	if err := run(*in, *out, *rulesPath, *find, *replaceWith, *regex, *minLen, *group, *interval, logger); err != nil {
		logger.Error("textsplice failed", "error", err)
		os.Exit(1)
	}
}

func run(in, out, rulesPath, find, replaceWith string, regex bool, minLen, group int, interval time.Duration, logger *slog.Logger) error {
	input, err := openInput(in)
	if err != nil {
		return err
	}
	defer input.Close()

	doc, err := html.Parse(input)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	vm := goja.New()
	var rules []splice.Rule
	if rulesPath != "" {
		rules, err = loadRules(rulesPath, doc, vm, logger)
		if err != nil {
			return err
		}
	} else {
		rule, err := buildRule(ruleConfig{
			Pattern:   find,
			Regex:     regex,
			Replace:   replaceWith,
			MinLength: minLen,
		}, doc, vm, logger)
		if err != nil {
			return err
		}
		rules = []splice.Rule{rule}
	}

	root := doc.AsNode()
	start := time.Now()
	var mutated int
	if group > 0 {
		task := splice.ReplaceTextsPaced(context.Background(), root, rules, splice.Options{
			GroupSize: group,
			Interval:  interval,
		})
		if err := task.Wait(context.Background()); err != nil {
			return err
		}
		mutated = task.Mutated()
		logger.Debug("paced replacement finished", "processed", task.Processed())
	} else {
		mutated, err = splice.ReplaceTexts(root, rules, splice.Options{})
		if err != nil {
			return err
		}
	}
	logger.Info("replacement complete",
		"rules", len(rules),
		"mutated", mutated,
		"duration", time.Since(start))

	output, err := openOutput(out)
	if err != nil {
		return err
	}
	defer output.Close()
	return html.Render(output, root)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
