// Lits runs lits scripts: inline (-c), from files, or from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/cli"
	"fortio.org/duration"
	"fortio.org/log"
	"fortio.org/struct2env"
	"grol.io/lits/eval"
	"grol.io/lits/extensions"
	"grol.io/lits/lits"
	"grol.io/lits/repl"
)

func main() {
	os.Exit(Main())
}

// Config is the part of the configuration that can come from LITS_ environment variables.
type Config struct {
	AstCacheSize int
	MaxDepth     int
}

var config = Config{
	AstCacheSize: 100,
	MaxDepth:     eval.DefaultMaxDepth,
}

func EnvHelp(w io.Writer) {
	res, _ := struct2env.StructToEnvVars(config)
	str := struct2env.ToShellWithPrefix("LITS_", res, true)
	fmt.Fprintln(w, "# Lits environment variables:")
	fmt.Fprint(w, str)
}

var hookBefore, hookAfter func() int

func Main() int {
	commandFlag := flag.String("c", "", "command/inline script to run instead of files or stdin")
	showParse := flag.Bool("parse", false, "show parse tree")
	showEval := flag.Bool("eval", true, "show eval results")
	noColor := flag.Bool("no-color", false, "don't color the results")
	debug := flag.Bool("debug", false, "locate errors (line, column and source line)")
	sharedState := flag.Bool("shared-state", false, "All files share the same definitions (default is a new state for each)")
	noExtensions := flag.Bool("no-ext", false, "only the builtins, no math/print extensions")
	timeout := duration.Flag("timeout", 0, "abandon evaluations taking longer than this `duration` (0 for no limit)")
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	errs := struct2env.SetFromEnv("LITS_", &config)
	if len(errs) > 0 {
		log.Errf("Error setting config from env: %v", errs)
	}
	cacheSize := flag.Int("cache-size", config.AstCacheSize, "AST cache `size`, 0 to disable, -1 for unbounded")
	maxDepth := flag.Int("max-depth", config.MaxDepth, "Maximum evaluation depth")
	cli.ArgsHelp = "*.lits files to run or `-` for stdin (default when there are no arguments and no -c)"
	cli.MaxArgs = -1
	cli.Main()
	log.LogVf("lits %s", cli.LongVersion)
	options := repl.Options{
		ShowParse: *showParse,
		ShowEval:  *showEval,
		NoColor:   *noColor,
		Config: lits.Config{
			AstCacheSize: *cacheSize,
			Debug:        *debug,
			MaxDepth:     *maxDepth,
		},
	}
	if !*noExtensions {
		options.Params = lits.Params{
			Values:          extensions.Values(),
			NativeFunctions: extensions.NativeFunctions(nil),
		}
	}
	if hookBefore != nil {
		if ret := hookBefore(); ret != 0 {
			return ret
		}
	}
	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	newState := func() *repl.State {
		s, err := repl.NewState(options)
		if err != nil {
			log.Fatalf("Error creating the engine: %v", err)
		}
		return s
	}
	s := newState()
	if *commandFlag != "" {
		if err := repl.EvalOne(ctx, s, *commandFlag, os.Stdout, options); err != nil {
			return log.FErrf("%v", err)
		}
		return 0
	}
	files := flag.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		if ret := processOneFile(ctx, file, s, options); ret != 0 {
			return ret
		}
		if !*sharedState {
			s = newState()
		}
	}
	log.Infof("All done")
	if hookAfter != nil {
		return hookAfter()
	}
	return 0
}

func processOneFile(ctx context.Context, file string, s *repl.State, options repl.Options) int {
	in := os.Stdin
	if file == "-" {
		log.Infof("Running on stdin")
	} else {
		f, err := os.Open(file)
		if err != nil {
			return log.FErrf("%v", err)
		}
		defer f.Close()
		in = f
		log.Infof("Running %s", file)
		s.Params.Filename = file
	}
	if err := repl.EvalAll(ctx, s, in, os.Stdout, options); err != nil {
		return log.FErrf("%v", err)
	}
	return 0
}
