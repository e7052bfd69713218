// Package wcs maps image pixel positions to world (sky) coordinates using the
// FITS World Coordinate System keywords of the two leading image axes.
package wcs

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind identifies the projection family of a celestial WCS.
type Kind int

const (
	Linear Kind = iota
	Gnomonic
	Orthographic
)

func (k Kind) String() string {
	switch k {
	case Gnomonic:
		return "TAN"
	case Orthographic:
		return "SIN"
	default:
		return "LINEAR"
	}
}

// ErrNoWCS reports a header without coordinate keywords.
var ErrNoWCS = errors.New("no WCS keywords")

// Header is the read-only keyword access a projection needs.
type Header interface {
	Float(key string) (float64, bool)
	String(key string) (string, bool)
}

// Projection is a two-axis WCS. Axes beyond the second (frequency, Stokes)
// are dropped and only counted in Dropped.
type Projection struct {
	CType   [2]string
	CUnit   [2]string
	CRPix   [2]float64
	CRVal   [2]float64
	CD      [2][2]float64
	Kind    Kind
	Dropped int
}

const deg = math.Pi / 180

// FromHeader builds a projection from the WCS keywords of hdr. naxis is the
// number of axes declared by the HDU; axes 3 and up are dropped.
func FromHeader(hdr Header, naxis int) (*Projection, error) {
	ct1, ok1 := hdr.String("CTYPE1")
	ct2, ok2 := hdr.String("CTYPE2")
	if !ok1 && !ok2 {
		return nil, ErrNoWCS
	}

	p := &Projection{
		CType: [2]string{strings.TrimSpace(ct1), strings.TrimSpace(ct2)},
	}
	if naxis > 2 {
		p.Dropped = naxis - 2
	}
	for i := 0; i < 2; i++ {
		n := i + 1
		p.CRPix[i] = floatOr(hdr, fmt.Sprintf("CRPIX%d", n), 0)
		p.CRVal[i] = floatOr(hdr, fmt.Sprintf("CRVAL%d", n), 0)
		if u, ok := hdr.String(fmt.Sprintf("CUNIT%d", n)); ok {
			p.CUnit[i] = strings.TrimSpace(u)
		}
	}

	if _, ok := hdr.Float("CD1_1"); ok {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				p.CD[i][j] = floatOr(hdr, fmt.Sprintf("CD%d_%d", i+1, j+1), 0)
			}
		}
	} else {
		cdelt := [2]float64{floatOr(hdr, "CDELT1", 1), floatOr(hdr, "CDELT2", 1)}
		_, hasPC := hdr.Float("PC1_1")
		rot, hasRot := hdr.Float("CROTA2")
		switch {
		case hasPC:
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					def := 0.0
					if i == j {
						def = 1
					}
					p.CD[i][j] = cdelt[i] * floatOr(hdr, fmt.Sprintf("PC%d_%d", i+1, j+1), def)
				}
			}
		case hasRot:
			c, s := math.Cos(rot*deg), math.Sin(rot*deg)
			p.CD = [2][2]float64{
				{cdelt[0] * c, -cdelt[1] * s},
				{cdelt[0] * s, cdelt[1] * c},
			}
		default:
			p.CD = [2][2]float64{{cdelt[0], 0}, {0, cdelt[1]}}
		}
	}

	switch {
	case strings.HasSuffix(p.CType[0], "-TAN"):
		p.Kind = Gnomonic
	case strings.HasSuffix(p.CType[0], "-SIN"):
		p.Kind = Orthographic
	default:
		p.Kind = Linear
	}
	return p, nil
}

func floatOr(hdr Header, key string, def float64) float64 {
	if v, ok := hdr.Float(key); ok {
		return v
	}
	return def
}

// Celestial reports whether the first axis is a longitude-like sky axis.
func (p *Projection) Celestial() bool {
	a := axisName(p.CType[0])
	return a == "RA" || a == "GLON" || a == "ELON"
}

// Labels returns short axis labels, e.g. "RA" and "DEC".
func (p *Projection) Labels() (string, string) {
	return axisName(p.CType[0]), axisName(p.CType[1])
}

func axisName(ctype string) string {
	name := ctype
	if i := strings.IndexByte(ctype, '-'); i > 0 {
		name = ctype[:i]
	}
	if name == "" {
		return "?"
	}
	return name
}

// PixelToWorld converts a zero-based pixel position to world coordinates.
// For celestial projections the result is (longitude, latitude) in degrees.
func (p *Projection) PixelToWorld(x, y float64) (float64, float64) {
	// FITS pixel indices are one-based.
	dx := x + 1 - p.CRPix[0]
	dy := y + 1 - p.CRPix[1]
	ix := p.CD[0][0]*dx + p.CD[0][1]*dy
	iy := p.CD[1][0]*dx + p.CD[1][1]*dy

	if p.Kind == Linear {
		return p.CRVal[0] + ix, p.CRVal[1] + iy
	}

	r := math.Hypot(ix, iy)
	phi := math.Atan2(ix, -iy)
	var theta float64
	switch p.Kind {
	case Gnomonic:
		theta = math.Atan2(1/deg, r)
	case Orthographic:
		s := r * deg
		if s > 1 {
			return math.NaN(), math.NaN()
		}
		theta = math.Acos(s)
	}
	return nativeToCelestial(phi, theta, p.CRVal[0]*deg, p.CRVal[1]*deg)
}

// nativeToCelestial rotates native spherical coordinates to celestial ones for
// zenithal projections (phi_p = 180 deg).
func nativeToCelestial(phi, theta, alpha0, delta0 float64) (float64, float64) {
	dphi := phi - math.Pi
	sinT, cosT := math.Sin(theta), math.Cos(theta)
	sinD0, cosD0 := math.Sin(delta0), math.Cos(delta0)

	alpha := alpha0 + math.Atan2(-cosT*math.Sin(dphi), sinT*cosD0-cosT*sinD0*math.Cos(dphi))
	delta := math.Asin(clampUnit(sinT*sinD0 + cosT*cosD0*math.Cos(dphi)))

	lon := math.Mod(alpha/deg, 360)
	if lon < 0 {
		lon += 360
	}
	return lon, delta / deg
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Format renders the world position of pixel (x, y) for display.
func (p *Projection) Format(x, y float64) string {
	lon, lat := p.PixelToWorld(x, y)
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return "off-sky"
	}
	l1, l2 := p.Labels()
	if p.Celestial() && l1 == "RA" {
		return fmt.Sprintf("RA %s DEC %s", FormatHours(lon), FormatDegrees(lat))
	}
	return fmt.Sprintf("%s %.6g %s %.6g", l1, lon, l2, lat)
}

// FormatHours renders an angle in degrees as sexagesimal hours (hh:mm:ss.ss).
func FormatHours(d float64) string {
	h := math.Mod(d, 360) / 15
	if h < 0 {
		h += 24
	}
	if math.Round(h*3600*100) >= 24*3600*100 {
		h = 0
	}
	hh, mm, ss := sexagesimal(h, 100)
	return fmt.Sprintf("%02d:%02d:%05.2f", hh, mm, ss)
}

// FormatDegrees renders an angle in degrees as signed sexagesimal degrees.
func FormatDegrees(d float64) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	dd, mm, ss := sexagesimal(d, 10)
	return fmt.Sprintf("%s%02d:%02d:%04.1f", sign, dd, mm, ss)
}

// sexagesimal splits v into units, minutes and seconds, rounding seconds to
// 1/scale so that 59.999 never renders as 60.
func sexagesimal(v float64, scale float64) (int, int, float64) {
	ticks := math.Round(v * 3600 * scale)
	perMinute := 60 * scale
	perUnit := 3600 * scale
	whole := math.Floor(ticks / perUnit)
	ticks -= whole * perUnit
	minutes := math.Floor(ticks / perMinute)
	ticks -= minutes * perMinute
	return int(whole), int(minutes), ticks / scale
}
