// Package render turns samples into training-script command lines and
// compact signature strings.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hypersample/domain/sample"
	"hypersample/domain/space"
)

// DefaultPrefix is the base training command with its fixed flags
const DefaultPrefix = "python cnn4nlp.py --corpus_path=data/twitter.pkl --model_path=models/twitter.pkl --l2  --norm_w --ebd_delay_epoch=0 --au=tanh"

// Style controls separators when rendering a sample
type Style struct {
	EntrySep  string
	KeyValSep string
	TupleSep  string
	KeyPrefix string
	// BareFlags renders a present boolean as the key alone; otherwise the
	// key is followed by KeyValSep and an empty value
	BareFlags bool
}

var (
	// CommandLine renders "--key value --tuple a b --flag"
	CommandLine = Style{EntrySep: " ", KeyValSep: " ", TupleSep: " ", KeyPrefix: "--", BareFlags: true}
	// Signature renders "key=value,,tuple=a,b,,flag="
	Signature = Style{EntrySep: ",,", KeyValSep: "=", TupleSep: ",", KeyPrefix: ""}
)

// Params renders every entry of s in insertion order. A boolean key present
// in the sample has no value text.
func Params(s *sample.Sample, style Style) string {
	entries := s.Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if sc, ok := e.Value.Scalar(); ok && sc.IsBool() {
			if style.BareFlags {
				parts = append(parts, style.KeyPrefix+e.Key)
			} else {
				parts = append(parts, style.KeyPrefix+e.Key+style.KeyValSep)
			}
			continue
		}
		parts = append(parts, style.KeyPrefix+e.Key+style.KeyValSep+formatValue(e.Value, style.TupleSep))
	}
	return strings.Join(parts, style.EntrySep)
}

// Renderer assembles full command lines around a fixed prefix
type Renderer struct {
	prefix string
}

// NewRenderer creates a renderer; an empty prefix falls back to DefaultPrefix
func NewRenderer(prefix string) *Renderer {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return &Renderer{prefix: prefix}
}

// Prefix returns the base command
func (r *Renderer) Prefix() string {
	return r.prefix
}

// Render produces "<prefix> <params> --img_prefix=<name>,,<signature>"
func (r *Renderer) Render(name string, s *sample.Sample) string {
	return fmt.Sprintf("%s %s --img_prefix=%s,,%s",
		r.prefix, Params(s, CommandLine), name, Params(s, Signature))
}

func formatValue(v space.Value, tupleSep string) string {
	if sc, ok := v.Scalar(); ok {
		return FormatScalar(sc)
	}
	tuple := v.Tuple()
	parts := make([]string, len(tuple))
	for i, sc := range tuple {
		parts[i] = FormatScalar(sc)
	}
	return strings.Join(parts, tupleSep)
}

// FormatScalar renders a scalar the way the training script's argument
// parser expects: "10", "0.5", "1e-06", "2.0", "True".
func FormatScalar(sc space.Scalar) string {
	if i, ok := sc.AsInt(); ok {
		return strconv.FormatInt(i, 10)
	}
	if b, ok := sc.AsBool(); ok {
		if b {
			return "True"
		}
		return "False"
	}
	f, _ := sc.AsFloat()
	return formatFloat(f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
