// platutil inspects and exports Pokémon Platinum map data.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/Kuruyia/sinjoh/internal/config"
	"github.com/Kuruyia/sinjoh/internal/export"
	"github.com/Kuruyia/sinjoh/internal/loader"
	"github.com/Kuruyia/sinjoh/internal/logger"
	"github.com/Kuruyia/sinjoh/internal/repl"
	"github.com/Kuruyia/sinjoh/pkg/modeltree"
)

var (
	out       io.Writer = os.Stdout
	in        io.Reader = os.Stdin
	promptOut io.Writer = os.Stderr
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "load":
		err = cmdLoad(args)
	case "dump":
		err = cmdDump(args)
	case "check":
		err = cmdCheck(args)
	case "tree":
		err = cmdTree(args)
	case "export":
		err = cmdExport(args)
	case "repl":
		err = cmdRepl(args)
	case "init-config":
		err = cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`platutil - Pokémon Platinum map data utility

Usage:
  platutil <command> [options]

Commands:
  load                      Load every resource and print counts
  dump <kind> [index]       Dump decoded records (kinds: ` + kindList() + `)
  check                     Validate the BDHC data of every land data file
  tree <file>               Print a model tree file
  export <file.sqlite>      Export every resource to an SQLite database
  repl                      Query every resource with SQL in an in-memory database
  init-config [path]        Write the effective configuration as YAML

Options (all commands):
  -config <path>    Config file (default ./sinjoh.yaml, then the user config dir)
  -repo <path>      Built pokeplatinum checkout
  -format <fmt>     Dump format: summary, yaml or spew
  -debug            Enable debug logging
  -log-file <path>  Also write logs to this file

Examples:
  platutil load -repo ~/src/pokeplatinum
  platutil dump -format yaml map_matrix 0
  platutil export -repo ~/src/pokeplatinum plat.sqlite
  echo 'SELECT * FROM map_matrix;' | platutil repl -repo ~/src/pokeplatinum`)
}

// setup parses args with the shared flags, then loads the configuration and
// initializes logging.
func setup(name string, args []string) (*flag.FlagSet, *config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	return fs, cfg, nil
}

func loadResources(cfg *config.Config) (*loader.Resources, error) {
	return loader.New(logger.Log).Load(cfg.Data)
}

func cmdLoad(args []string) error {
	_, cfg, err := setup("load", args)
	if err != nil {
		return err
	}

	res, err := loadResources(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Area data:                %d\n", len(res.AreaData))
	fmt.Fprintf(out, "Area lights:              %d\n", len(res.AreaLights))
	fmt.Fprintf(out, "Area map props:           %d\n", len(res.AreaMapProps))
	fmt.Fprintf(out, "Map prop animation lists: %d\n", len(res.MapPropAnimationLists))
	fmt.Fprintf(out, "Map prop material shapes: %d\n", res.MapPropMaterialShapes.Len())
	fmt.Fprintf(out, "Map matrices:             %d\n", len(res.MapMatrices))
	fmt.Fprintf(out, "Land data:                %d\n", len(res.LandData))
	return nil
}

func cmdDump(args []string) error {
	fs, cfg, err := setup("dump", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: platutil dump [options] <kind> [index]")
	}

	index := -1
	if fs.NArg() > 1 {
		if index, err = strconv.Atoi(fs.Arg(1)); err != nil || index < 0 {
			return fmt.Errorf("invalid index %q", fs.Arg(1))
		}
	}

	res, err := loadResources(cfg)
	if err != nil {
		return err
	}
	records, err := selectRecords(res, fs.Arg(0), index)
	if err != nil {
		return err
	}
	return dump(out, cfg.Output.Format, records)
}

func cmdCheck(args []string) error {
	_, cfg, err := setup("check", args)
	if err != nil {
		return err
	}

	res, err := loadResources(cfg)
	if err != nil {
		return err
	}

	bad := 0
	for i := range res.LandData {
		if err := res.LandData[i].BDHC.Validate(); err != nil {
			fmt.Fprintf(out, "land data %d: %v\n", i, err)
			bad++
		}
	}
	fmt.Fprintf(out, "%d of %d land data files have inconsistent BDHC data\n", bad, len(res.LandData))
	if bad > 0 {
		return fmt.Errorf("%d land data files failed validation", bad)
	}
	return nil
}

func cmdTree(args []string) error {
	fs, _, err := setup("tree", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: platutil tree [options] <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	tree, err := modeltree.Parse(data)
	if err != nil {
		return err
	}

	printTree(out, tree)
	return nil
}

func printTree(w io.Writer, tree *modeltree.Tree) {
	tree.Walk(func(index, depth int, n *modeltree.Node, shared bool) bool {
		if shared {
			fmt.Fprintf(w, "%*s[%d] (shared)\n", depth*2, "", index)
			return true
		}
		b := n.Bounds()
		fmt.Fprintf(w, "%*s[%d] %s", depth*2, "", index, n.Kind)
		switch n.Kind {
		case modeltree.KindGroup:
			fmt.Fprintf(w, " children=%d", len(n.Children))
		case modeltree.KindMesh:
			fmt.Fprintf(w, " vertices=%d", len(n.Vertices))
		case modeltree.KindCollision:
			fmt.Fprintf(w, " plates=%d", len(n.Plates))
		}
		fmt.Fprintf(w, " pos=%v bounds=%v..%v\n", n.Position.Float(), b.Min.Float(), b.Max.Float())
		return true
	})
	fmt.Fprintf(w, "%d nodes, depth %d, %d leaves\n", tree.Len(), tree.Depth(), len(tree.Leaves()))
}

func cmdExport(args []string) error {
	fs, cfg, err := setup("export", args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: platutil export [options] <file.sqlite>")
	}

	res, err := loadResources(cfg)
	if err != nil {
		return err
	}
	return export.Export(context.Background(), res, fs.Arg(0), logger.Log)
}

func cmdRepl(args []string) error {
	_, cfg, err := setup("repl", args)
	if err != nil {
		return err
	}

	res, err := loadResources(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := export.OpenMemory(ctx, res)
	if err != nil {
		return err
	}
	defer db.Close()

	r := repl.New(db, out, logger.Log)
	r.Prompt = promptOut
	return r.Run(ctx, in)
}

func cmdInitConfig(args []string) error {
	fs, cfg, err := setup("init-config", args)
	if err != nil {
		return err
	}

	if fs.NArg() > 0 {
		err = cfg.SaveTo(fs.Arg(0))
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(out, "Configuration written")
	return nil
}
