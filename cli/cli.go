package cli

import (
	"context"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ccnt/cli/cmd"
	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
	"github.com/ardnew/ccnt/report"
	"github.com/ardnew/ccnt/store"
	"github.com/ardnew/ccnt/suite"
)

// configName is the base name of the CLI configuration file.
const configName = "config.yaml"

// CLI is the top-level command-line interface for ccnt.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Suite   string `default:"${suite}" help:"Suite file."                                        short:"s" type:"path"`
	DB      string `default:"${db}"    help:"Results database ('none' disables storage)."                  name:"db"`
	Counter string `default:""         enum:",${counterEnum}" help:"Override the suite's counter backend." short:"c"`
	Runs    int    `default:"0"        help:"Override the suite's samples per workload."                   short:"n"`

	Init    cmd.Init    `cmd:"" help:"Write the default suite and configuration files"`
	List    cmd.List    `cmd:"" help:"List workloads"`
	Setup   cmd.Setup   `cmd:"" help:"Profile workloads on a scheduled real-time task"`
	Render  cmd.Render  `cmd:"" help:"Profile workloads inline from a periodic real-time loop"`
	Run     cmd.Profile `cmd:"" help:"Run setup, then render" default:"withargs"`
	History cmd.History `cmd:"" help:"Show stored runs"`
}

// Run executes the ccnt CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(configName)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"suite":              suite.Path(),
		"db":                 store.DefaultPath(),
		"counterEnum":        strings.Join(counter.Kinds(), ","),
		"formatEnum":         strings.Join(report.Formats(), ","),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports parse errors.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithGlobals(ctx, cmd.Globals{
		Suite:   cli.Suite,
		DB:      cli.DB,
		Counter: counter.Kind(cli.Counter),
		Runs:    cli.Runs,
		Config:  configFilePath,
		Stdout:  os.Stdout,
	})

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
