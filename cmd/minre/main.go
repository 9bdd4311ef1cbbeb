// Command minre matches a pattern against lines of input and prints
// offset:length:text for every matching line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/minre/minre"
)

var (
	expr       = flag.String("e", "", "pattern to match")
	ignoreCase = flag.Bool("i", false, "case-insensitive matching")
	budget     = flag.Int("budget", minre.DefaultMatchBudget, "backtracking step budget per line")
	showCaps   = flag.Bool("caps", false, "also print capture groups")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if *expr == "" {
		logger.Fatal().Msg("no pattern given, use -e")
	}

	var opt minre.RegexOptions
	if *ignoreCase {
		opt |= minre.IgnoreCase
	}

	re, err := minre.Compile(*expr, opt)
	if err != nil {
		logger.Fatal().Err(err).Str("pattern", *expr).Msg("pattern did not compile")
	}
	re.MatchBudget = *budget
	logger.Debug().Str("pattern", *expr).Int("groups", re.GroupCount()).Msg("pattern compiled")

	in := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot open input")
		}
		defer f.Close()
		in = f
	}

	matched, err := scan(re, in, os.Stdout, *showCaps, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scan failed")
	}
	if !matched {
		os.Exit(1)
	}
}

// scan runs the pattern over every line of in, writing matches to out.
// Reports whether anything matched at all.
func scan(re *minre.Regexp, in io.Reader, out io.Writer, showCaps bool, logger zerolog.Logger) (bool, error) {
	matched := false
	lineno := 0

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineno++
		m, err := re.FindMatch(scanner.Bytes())
		if err != nil {
			logger.Warn().Err(err).Int("line", lineno).Msg("match aborted")
			continue
		}
		if m == nil {
			continue
		}
		matched = true
		fmt.Fprintf(out, "%d:%d:%s\n", m.Index, m.Length, m.String())
		if showCaps {
			for i := range m.Captures {
				fmt.Fprintf(out, "  %d:%s\n", i+1, m.CaptureString(i+1))
			}
		}
		logger.Debug().Int("line", lineno).Int("index", m.Index).Int("length", m.Length).Msg("match")
	}
	return matched, scanner.Err()
}
