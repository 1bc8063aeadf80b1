/*
Ictgen generates a lexer and an LL(1) parser from a token-definition list
and a context-free grammar, then runs them over input.

It reads the token list (one `name = pattern` regex assignment per line)
and the grammar (`LHS -> RHS | RHS` lines), builds the tokenizing DFA and
the predictive parse table, and then either parses the given input file,
starts an interactive read-eval loop, or just reports on the build.

Usage:

	ictgen [flags]

The flags are:

	-v, --version
		Give the current version of ictgen and then exit.

	-t, --tokens FILE
		Read token definitions from FILE. Defaults to "tokens.ict".

	-g, --grammar FILE
		Read grammar rules from FILE. Defaults to "grammar.ict".

	-c, --config FILE
		Read generator options (skip classes, alphabet, start symbol,
		error bound) from the given TOML file.

	-i, --input FILE
		Tokenize and parse the contents of FILE, printing the parse tree
		on success.

	-r, --repl
		Start an interactive session that tokenizes and parses each line
		of input as it is entered.

	--cache FILE
		Load the built grammar, parse table, and DFA from FILE if it
		exists; otherwise build them from source and save them to FILE.

	--table FILE
		Write the built LL(1) table to FILE in its binary form.

	--dump-dfa
		Print the built DFA's states and transitions to stdout.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/ictiobus/internal/ictiobus"
	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lexspec"
	"github.com/dekarrin/ictiobus/internal/ictiobus/ll1"
	"github.com/dekarrin/ictiobus/internal/ictiobus/loader"
	"github.com/dekarrin/ictiobus/internal/ictiobus/parse"
	"github.com/dekarrin/ictiobus/internal/ictiobus/session"
	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
	"github.com/dekarrin/ictiobus/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates an unsuccessful program execution due to
	// syntax errors in the parsed input.
	ExitParseError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue building the lexer or parser.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	tokensFile  *string = pflag.StringP("tokens", "t", "tokens.ict", "The file containing the token definitions, one name = pattern per line")
	grammarFile *string = pflag.StringP("grammar", "g", "grammar.ict", "The file containing the grammar rules")
	configFile  *string = pflag.StringP("config", "c", "", "A TOML file of generator options")
	inputFile   *string = pflag.StringP("input", "i", "", "A source file to tokenize and parse with the generated lexer and parser")
	flagRepl    *bool   = pflag.BoolP("repl", "r", false, "Start an interactive tokenize-and-parse session")
	cacheFile   *string = pflag.String("cache", "", "Load the built artifacts from this file if present, else build and save them to it")
	tableFile   *string = pflag.String("table", "", "Write the built LL(1) table to this file in binary form")
	flagDumpDFA *bool   = pflag.Bool("dump-dfa", false, "Print the built DFA to stdout")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var cfg Config
	if *configFile != "" {
		var err error
		cfg, err = LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	defs, err := loadTokenDefs(*tokensFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	sess := ictiobus.NewSession()

	dfa, g, table, err := buildArtifacts(sess, defs, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	for _, w := range sess.Warnings() {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", w)
	}
	for _, c := range sess.Conflicts() {
		fmt.Fprintf(os.Stderr, "WARN: grammar is not LL(1): %s\n", c.String())
	}

	if *flagDumpDFA {
		dfa.Dump(os.Stdout)
	}

	if *tableFile != "" {
		data, err := table.MarshalBinary()
		if err == nil {
			err = os.WriteFile(*tableFile, data, 0644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: write table: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	p := parse.NewPredictive(g, table)
	if cfg.MaxErrors > 0 {
		p.MaxErrors = cfg.MaxErrors
	}
	skip := skipSet(defs, cfg.Skip)

	switch {
	case *flagRepl:
		if err := runRepl(dfa, p, skip); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
		}
	case *inputFile != "":
		src, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		if !parseAndReport(dfa, p, skip, src, os.Stdout) {
			returnCode = ExitParseError
		}
	}
}

// loadTokenDefs reads and parses the token-definition list at path.
func loadTokenDefs(path string) ([]lexspec.TokenDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loader.ParseTokenList(string(data))
}

// buildArtifacts produces the DFA, grammar, and LL(1) table for this run,
// either by loading them from the cache file or by building them from the
// token and grammar sources (and then saving the cache, if one was named).
func buildArtifacts(sess *ictiobus.Session, defs []lexspec.TokenDef, cfg Config) (*automaton.DFA, *grammar.Grammar, *ll1.Table, error) {
	if *cacheFile != "" {
		if data, err := os.ReadFile(*cacheFile); err == nil {
			c, err := session.Load(data)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("load cache %q: %w", *cacheFile, err)
			}
			return c.DFA, c.Grammar, c.Table, nil
		}
	}

	var alphabet []byte
	if cfg.Alphabet != "" {
		alphabet = []byte(cfg.Alphabet)
	}
	dfa, err := sess.BuildLexer(defs, alphabet)
	if err != nil {
		return nil, nil, nil, err
	}

	gramSrc, err := os.ReadFile(*grammarFile)
	if err != nil {
		return nil, nil, nil, err
	}

	byName := make(map[string]int, len(defs))
	for _, def := range defs {
		byName[def.Name] = def.ID
	}
	classify := func(name string) (int, bool, bool) {
		if id, ok := byName[name]; ok {
			return id, true, true
		}
		return 0, false, true
	}

	g := grammar.New()
	if err := loader.ParseGrammar(string(gramSrc), g, classify); err != nil {
		return nil, nil, nil, err
	}
	if cfg.Start != "" {
		g.SetStart(cfg.Start)
	}

	table, _, err := sess.BuildTable(g)
	if err != nil {
		return nil, nil, nil, err
	}

	if *cacheFile != "" {
		c := &session.Cache{SessionID: sess.ID, Grammar: g, Table: table, DFA: dfa}
		if err := os.WriteFile(*cacheFile, session.Save(c), 0644); err != nil {
			return nil, nil, nil, fmt.Errorf("save cache %q: %w", *cacheFile, err)
		}
	}

	return dfa, g, table, nil
}

// skipSet resolves the configured skip-class names to the token ids the
// tokenizer filters on.
func skipSet(defs []lexspec.TokenDef, names []string) map[int]bool {
	if len(names) == 0 {
		return nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	skip := make(map[int]bool)
	for _, def := range defs {
		if want[def.Name] {
			skip[def.ID] = true
		}
	}
	return skip
}

// parseAndReport tokenizes and parses src, printing the parse tree to w on
// a clean parse and every diagnostic to stderr otherwise. It returns
// whether the parse was clean.
func parseAndReport(dfa *automaton.DFA, p *parse.Predictive, skip map[int]bool, src []byte, w io.Writer) bool {
	tree, errs := p.Parse(dfa.Tokenize(src, skip))
	if len(errs) > 0 {
		for _, err := range errs {
			var synErr *icterrors.SyntaxError
			if errors.As(err, &synErr) {
				fmt.Fprintln(os.Stderr, synErr.FullMessage())
			} else {
				fmt.Fprintln(os.Stderr, err.Error())
			}
		}
		return false
	}
	fmt.Fprintln(w, tree.String())
	return true
}

// runRepl reads lines with readline and tokenizes and parses each one,
// printing the token stream and then the parse result.
func runRepl(dfa *automaton.DFA, p *parse.Predictive, skip map[int]bool) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "ict> ",
	})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		tz := dfa.Tokenize([]byte(line), skip)
		var parts []string
		for tok := tz.Next(); tok.Type != types.EOF; tok = tz.Next() {
			parts = append(parts, tok.String())
		}
		fmt.Println(strings.Join(parts, " "))

		parseAndReport(dfa, p, skip, []byte(line), os.Stdout)
	}
}
