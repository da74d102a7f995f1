package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ccnt/log"
	"github.com/ardnew/ccnt/pkg"
	"github.com/ardnew/ccnt/profile"
	"github.com/ardnew/ccnt/suite"
)

// Init writes the default suite file and a configuration file holding the
// current flag values.
type Init struct {
	Force  bool `help:"Overwrite existing files"                   short:"f"`
	Config bool `default:"true" help:"Also write the configuration file" negatable:""`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	g := globalsFrom(ctx)

	suitePath := g.Suite
	if suitePath == "" {
		suitePath = suite.Path()
	}

	if err := suite.Default().Save(suitePath, i.Force); err != nil {
		return err
	}

	log.InfoContext(ctx, "initialized suite file", slog.String("path", suitePath))

	if !i.Config {
		return nil
	}

	confPath := g.Config
	if confPath == "" {
		ktx := kongContextFrom(ctx)
		if ktx == nil {
			return nil
		}

		confPath = ktx.Model.Vars()[ConfigIdentifier]
	}

	if err := i.writeConfig(ctx, confPath); err != nil {
		return err
	}

	log.InfoContext(ctx, "initialized configuration file", slog.String("path", confPath))

	return nil
}

func (i *Init) writeConfig(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(flagValues(kongContextFrom(ctx)),
		yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

// flagValues returns the value of every visible top-level flag in
// declaration order. Empty values and the help and pprof flags are omitted.
func flagValues(ktx *kong.Context) yaml.MapSlice {
	if ktx == nil {
		return yaml.MapSlice{}
	}

	ignore := []string{"help", profile.Tag}
	values := yaml.MapSlice{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)

		switch v := val.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case []string:
			if len(v) == 0 {
				continue
			}
		case interface{ String() string }:
			val = v.String()
		}

		values = append(values, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return values
}
