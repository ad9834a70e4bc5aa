// Command axis-compiler drives the registry-load, lex, parse, lower,
// serialize pipeline over a set of source files and writes the resulting
// CoreBundle to disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/sunholo/axiscore/internal/bundle"
	"github.com/sunholo/axiscore/internal/config"
	"github.com/sunholo/axiscore/internal/core"
	axerrors "github.com/sunholo/axiscore/internal/errors"
	"github.com/sunholo/axiscore/internal/pipeline"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// stringList accumulates repeatable flag occurrences, e.g. --sources a.ax
// --sources b.ax, in the order they were given.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

const (
	exitOK           = 0
	exitSourceErrors = 1
	exitUsage        = 2
	exitIOFailure    = 3
)

func main() {
	var sources, registries stringList
	flag.Var(&sources, "sources", "source file to compile (repeatable)")
	flag.Var(&registries, "registries", "registry file to load (repeatable)")
	outFlag := flag.String("out", "", "output bundle path (default ./coreir/<first-source-basename>.coreir)")
	profileFlag := flag.String("profile", "", "active registry profile (default \"default\")")
	configFlag := flag.String("config", "axis.yaml", "path to the project config file")
	viewFlag := flag.String("view-core-ir", "", "print an existing bundle's canonical Core IR form and exit")

	flag.Parse()

	if *viewFlag != "" {
		viewCoreIR(*viewFlag)
		return
	}

	if len(sources) == 0 {
		fmt.Fprintf(os.Stderr, "%s: at least one --sources flag is required\n", red("Error"))
		os.Exit(exitUsage)
	}

	cfg, cfgErr := config.Load(*configFlag)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), cfgErr.Error())
		os.Exit(exitIOFailure)
	}

	mergedRegistries, profile, outDir := config.Merge(cfg, registries, *profileFlag, "")

	outPath := *outFlag
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(sources[0]), filepath.Ext(sources[0]))
		dir := outDir
		if dir == "" {
			dir = "./coreir"
		}
		outPath = filepath.Join(dir, base+".coreir")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot create output directory: %v\n", red("Error"), err)
		os.Exit(exitIOFailure)
	}

	result, err := pipeline.Run(pipeline.Config{
		Sources:    sources,
		Registries: mergedRegistries,
		Profile:    profile,
		OutPath:    outPath,
	})

	for _, phase := range []string{"registry", "parse", "lower", "serialize"} {
		if ms, ok := result.PhaseTimings[phase]; ok {
			fmt.Fprintf(os.Stderr, "%s %s: %dms\n", bold("→"), phase, ms)
		}
	}

	if result.Report.HasErrors() {
		fmt.Fprint(os.Stderr, result.Report.Render())
		fmt.Fprintf(os.Stderr, "%s: %d error(s)\n", red("Failed"), result.Report.Len())
		code := exitSourceErrors
		for _, d := range result.Report.Diagnostics() {
			if axerrors.IsIOError(d.Code) || d.Code == axerrors.REG005 {
				code = exitIOFailure
			}
		}
		os.Exit(code)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(exitIOFailure)
	}

	fmt.Fprintf(os.Stderr, "%s wrote %s\n", green("✓"), outPath)
	os.Exit(exitOK)
}

func viewCoreIR(path string) {
	b, err := bundle.Read(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(exitIOFailure)
	}
	fmt.Printf("%s %s (entrypoint %s)\n\n", yellow("bundle"), path, bold(b.EntrypointName))
	fmt.Println(core.Print(b.Root))
	os.Exit(exitOK)
}
