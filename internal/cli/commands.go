package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geodesy-go/geodesic"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func (a *App) inverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inverse",
		Short: "Solve inverse geodesic problems",
		Long: `inverse reads lines of "lat1 lon1 lat2 lon2" (degrees) and prints
"azi1 azi2 s12" for each, azimuths in degrees and the distance in meters.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ellipsoid()
			if err != nil {
				return err
			}
			mask := geodesic.Standard
			full := a.Cfg.GetBool("full")
			if full {
				mask = geodesic.All
			}
			if a.Cfg.GetBool("unroll") {
				mask |= geodesic.LongUnroll
			}
			f := a.formatter()
			return a.eachLine(cmd, func(line string) (string, error) {
				v, err := parseFloats(line, 4)
				if err != nil {
					return "", err
				}
				r, err := e.Inverse(v[0], v[1], v[2], v[3], mask)
				if err != nil {
					return "", err
				}
				if !r.Converged {
					a.Log.WithField("line", line).Warn("inverse problem did not converge")
				}
				if full {
					return f.full(r), nil
				}
				return f.join(f.angle(r.Azi1), f.angle(r.Azi2), f.length(r.Distance)), nil
			})
		},
	}
}

func (a *App) directCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "direct",
		Short: "Solve direct geodesic problems",
		Long: `direct reads lines of "lat1 lon1 azi1 s12" (degrees and meters) and
prints "lat2 lon2 azi2" for each. With --arc the fourth number is the arc
length a12 in degrees.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ellipsoid()
			if err != nil {
				return err
			}
			mask := geodesic.Standard
			full := a.Cfg.GetBool("full")
			if full {
				mask = geodesic.All
			}
			if a.Cfg.GetBool("unroll") {
				mask |= geodesic.LongUnroll
			}
			arc := a.Cfg.GetBool("arc")
			f := a.formatter()
			return a.eachLine(cmd, func(line string) (string, error) {
				v, err := parseFloats(line, 4)
				if err != nil {
					return "", err
				}
				var r geodesic.Result
				if arc {
					r, err = e.ArcDirect(v[0], v[1], v[2], v[3], mask)
				} else {
					r, err = e.Direct(v[0], v[1], v[2], v[3], mask)
				}
				if err != nil {
					return "", err
				}
				if full {
					return f.full(r), nil
				}
				return f.join(f.angle(r.Lat2), f.angle(r.Lon2), f.angle(r.Azi2)), nil
			})
		},
	}
}

func (a *App) planimeterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "planimeter",
		Short: "Compute the perimeter and area of geodesic polygons",
		Long: `planimeter reads the vertices of a polygon, one "lat lon" pair per
line, and prints "number perimeter area" when a blank line or the end of
the input closes the polygon. Several polygons can be given in one input.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.ellipsoid()
			if err != nil {
				return err
			}
			polyline := a.Cfg.GetBool("polyline")
			reverse := a.Cfg.GetBool("reverse")
			sign := a.Cfg.GetBool("sign")
			f := a.formatter()
			poly := e.PolygonInit(polyline)
			out := cmd.OutOrStdout()
			flush := func() {
				if poly.Number() == 0 {
					return
				}
				res := poly.Compute(reverse, sign)
				if polyline {
					fmt.Fprintln(out, f.join(strconv.Itoa(res.Number), f.length(res.Perimeter)))
				} else {
					fmt.Fprintln(out, f.join(strconv.Itoa(res.Number), f.length(res.Perimeter), f.area(res.Area)))
				}
				poly.Clear()
			}
			in, closer, err := a.input(cmd)
			if err != nil {
				return err
			}
			defer closer()
			s := bufio.NewScanner(in)
			n := 0
			for s.Scan() {
				n++
				line := strings.TrimSpace(s.Text())
				if line == "" {
					flush()
					continue
				}
				v, err := parseFloats(line, 2)
				if err == nil {
					err = poly.AddPoint(v[0], v[1])
				}
				if err != nil {
					a.reportError(out, n, line, err)
				}
			}
			flush()
			return s.Err()
		},
	}
}

func (a *App) waypointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "waypoints lat1 lon1 lat2 lon2",
		Short: "Print equally spaced points along a geodesic",
		Long: `waypoints splits the shortest geodesic between two points into --points
intervals of equal length and prints "lat lon" for each end point, or a
GeoJSON LineString Feature with --geojson. Put -- before the coordinates
when any of them is negative.`,
		Args:              cobra.ExactArgs(4),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.ellipsoid()
			if err != nil {
				return err
			}
			v, err := parseFloats(strings.Join(args, " "), 4)
			if err != nil {
				return err
			}
			ls, err := e.LineString(v[0], v[1], v[2], v[3], a.Cfg.GetInt("points"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.Cfg.GetBool("geojson") {
				feat := geojson.NewFeature(ls)
				length, err := e.LineStringLength(ls)
				if err != nil {
					return err
				}
				feat.Properties["length"] = length
				b, err := json.Marshal(feat)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			f := a.formatter()
			for _, p := range ls {
				fmt.Fprintln(out, f.join(f.angle(p.Lat()), f.angle(p.Lon())))
			}
			return nil
		},
	}
}

func (a *App) ellipsoidsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ellipsoids",
		Short: "List the named ellipsoids",
		Long: `ellipsoids prints "name radius flattening" for every ellipsoid in the
built-in catalog and the file given by --catalog.`,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range cat.Names() {
				e, err := cat.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s\n", e.Name,
					strconv.FormatFloat(e.Radius, 'f', -1, 64),
					strconv.FormatFloat(e.F(), 'g', -1, 64))
			}
			return nil
		},
	}
}

// eachLine applies solve to every non-blank input line and prints the
// results. Lines that cannot be solved print an ERROR line and are logged;
// processing continues.
func (a *App) eachLine(cmd *cobra.Command, solve func(line string) (string, error)) error {
	in, closer, err := a.input(cmd)
	if err != nil {
		return err
	}
	defer closer()
	out := cmd.OutOrStdout()
	s := bufio.NewScanner(in)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		res, err := solve(line)
		if err != nil {
			a.reportError(out, n, line, err)
			continue
		}
		a.Log.WithFields(logrus.Fields{"line": n, "input": line}).Debug("solved")
		fmt.Fprintln(out, res)
	}
	return s.Err()
}

func (a *App) reportError(out io.Writer, n int, line string, err error) {
	a.Log.WithFields(logrus.Fields{"line": n, "input": line}).WithError(err).Warn("bad input")
	fmt.Fprintf(out, "ERROR %v\n", err)
}

// parseFloats splits line on white space or commas and parses exactly n
// numbers.
func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	v := make([]float64, n)
	for i, s := range fields {
		x, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		v[i] = x
	}
	return v, nil
}

type formatter struct {
	prec int
}

func (a *App) formatter() formatter {
	prec := a.Cfg.GetInt("precision")
	if prec < 0 {
		prec = 0
	}
	return formatter{prec: prec}
}

func (f formatter) angle(x float64) string {
	return strconv.FormatFloat(x+0, 'f', f.prec+5, 64)
}

func (f formatter) length(x float64) string {
	return strconv.FormatFloat(x+0, 'f', f.prec, 64)
}

func (f formatter) area(x float64) string {
	return strconv.FormatFloat(x+0, 'f', max(f.prec-2, 0), 64)
}

// scale formats a dimensionless geodesic scale.
func (f formatter) scale(x float64) string {
	return strconv.FormatFloat(x+0, 'f', f.prec+7, 64)
}

func (f formatter) join(s ...string) string {
	return strings.Join(s, " ")
}

// full formats every quantity of r in the order
// lat1 lon1 azi1 lat2 lon2 azi2 s12 a12 m12 M12 M21 S12.
func (f formatter) full(r geodesic.Result) string {
	return f.join(
		f.angle(r.Lat1), f.angle(r.Lon1), f.angle(r.Azi1),
		f.angle(r.Lat2), f.angle(r.Lon2), f.angle(r.Azi2),
		f.length(r.Distance), f.angle(r.Arc), f.length(r.ReducedLength),
		f.scale(r.M12), f.scale(r.M21), f.area(r.Area))
}
