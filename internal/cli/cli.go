// Package cli implements the geodsolve command: batch solutions of the
// direct and inverse geodesic problems, polygon areas and waypoints, read
// line by line from standard input or a file.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/geodesy-go/geodesic"
	"github.com/geodesy-go/geodesic/internal/catalog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// App is one instance of the command tree together with its
// configuration.
type App struct {
	// Cfg holds configuration information.
	Cfg *viper.Viper

	// Root is the main command.
	Root *cobra.Command

	// Log receives diagnostics. Its output is the command's error stream.
	Log *logrus.Logger

	options []option
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// New builds the command tree.
func New() *App {
	a := &App{
		Cfg: viper.New(),
		Log: logrus.New(),
	}
	a.Log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}

	a.Root = &cobra.Command{
		Use:   "geodsolve",
		Short: "Geodesic calculations on an ellipsoid of revolution.",
		Long: `geodsolve solves geodesic problems on an ellipsoid of revolution.
Use the subcommands specified below. Input is read one problem per line
from standard input, or from the file given by --input.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GEODSOLVE_var' where 'var'
is the name of the variable to be set, with dashes replaced by underscores.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setConfig(cmd)
		},
	}
	inverse := a.inverseCmd()
	direct := a.directCmd()
	planimeter := a.planimeterCmd()
	waypoints := a.waypointsCmd()
	a.Root.AddCommand(inverse, direct, planimeter, waypoints, a.ellipsoidsCmd())

	a.options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level is the logrus level for diagnostics
              (panic, fatal, error, warn, info, debug, trace).`,
			defaultVal: "warn",
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "ellipsoid",
			usage: `
              ellipsoid is the name of the ellipsoid to use, from the
              built-in catalog or the file given by --catalog.`,
			shorthand:  "e",
			defaultVal: "WGS84",
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "equatorial-radius",
			usage: `
              equatorial-radius in meters. When set it overrides
              --ellipsoid and is used with --flattening.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "flattening",
			usage: `
              flattening of the ellipsoid given by --equatorial-radius.
              Values greater than 1 are taken as inverse flattening.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "catalog",
			usage: `
              catalog is a YAML file of additional named ellipsoids.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the file to read problems from. Standard input
              is read when empty.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "precision",
			usage: `
              precision is the number of decimals printed for lengths
              in meters. Angles get 5 more.`,
			shorthand:  "p",
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{a.Root.PersistentFlags()},
		},
		{
			name: "full",
			usage: `
              full prints every quantity of the solution:
              lat1 lon1 azi1 lat2 lon2 azi2 s12 a12 m12 M12 M21 S12.`,
			shorthand:  "f",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{inverse.Flags(), direct.Flags()},
		},
		{
			name: "unroll",
			usage: `
              unroll keeps longitudes unreduced so that lon2 - lon1
              shows how often the geodesic circles the ellipsoid.`,
			shorthand:  "u",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{inverse.Flags(), direct.Flags()},
		},
		{
			name: "arc",
			usage: `
              arc makes the fourth number of each direct problem the
              arc length a12 in degrees instead of the distance.`,
			shorthand:  "a",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{direct.Flags()},
		},
		{
			name: "polyline",
			usage: `
              polyline treats the points as a polyline and prints its
              length instead of a polygon's perimeter and area.`,
			shorthand:  "l",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{planimeter.Flags()},
		},
		{
			name: "reverse",
			usage: `
              reverse counts clockwise traversal as positive area.`,
			shorthand:  "r",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{planimeter.Flags()},
		},
		{
			name: "sign",
			usage: `
              sign allows negative areas. Without it the area of a
              polygon traversed the wrong way is the ellipsoid's area
              less the enclosed area.`,
			shorthand:  "s",
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{planimeter.Flags()},
		},
		{
			name: "points",
			usage: `
              points is the number of intervals the geodesic is split
              into.`,
			shorthand:  "n",
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{waypoints.Flags()},
		},
		{
			name: "geojson",
			usage: `
              geojson prints the waypoints as a GeoJSON Feature.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{waypoints.Flags()},
		},
	}

	a.Cfg.SetEnvPrefix("GEODSOLVE")
	a.Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.Cfg.AutomaticEnv()

	for _, option := range a.options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			a.Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return a
}

// Execute runs the command tree with the process arguments.
func Execute() error {
	return New().Root.Execute()
}

// setConfig reads in the configuration file, if there is one, and sets up
// logging.
func (a *App) setConfig(cmd *cobra.Command) error {
	if cfgpath := a.Cfg.GetString("config"); cfgpath != "" {
		a.Cfg.SetConfigFile(cfgpath)
		if err := a.Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geodsolve: problem reading configuration file: %v", err)
		}
	}
	a.Log.SetOutput(cmd.ErrOrStderr())
	lvl, err := logrus.ParseLevel(a.Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("geodsolve: %v", err)
	}
	a.Log.SetLevel(lvl)
	return nil
}

// ellipsoid returns the configured ellipsoid.
func (a *App) ellipsoid() (*geodesic.Ellipsoid, error) {
	opt := geodesic.WithLogger(a.Log)
	if radius := a.Cfg.GetFloat64("equatorial-radius"); radius != 0 {
		f := a.Cfg.GetFloat64("flattening")
		if f > 1 {
			f = 1 / f
		}
		a.Log.WithFields(logrus.Fields{"radius": radius, "flattening": f}).Debug("using explicit ellipsoid")
		return geodesic.NewEllipsoid(radius, f, opt)
	}
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	name := a.Cfg.GetString("ellipsoid")
	a.Log.WithField("ellipsoid", name).Debug("using catalog ellipsoid")
	return cat.Ellipsoid(name, opt)
}

// catalog returns the built-in catalog overlaid with the --catalog file.
func (a *App) catalog() (catalog.Catalog, error) {
	cat := catalog.Default()
	path := a.Cfg.GetString("catalog")
	if path == "" {
		return cat, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geodsolve: opening catalog: %w", err)
	}
	defer f.Close()
	extra, err := catalog.Load(f)
	if err != nil {
		return nil, err
	}
	return cat.Merge(extra), nil
}

// input returns the configured problem source. The returned closer must be
// called when done.
func (a *App) input(cmd *cobra.Command) (io.Reader, func() error, error) {
	path := a.Cfg.GetString("input")
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("geodsolve: opening input: %w", err)
	}
	return f, f.Close, nil
}
