/*
Package assembler turns a structural model into the text input of the solver. One compile runs the
identity registry, indexes the couplings on their anchor ids, then walks the direct element list in
host order. Each element is written as its attribute record, its geometry records and the couplings
anchored on it, between a header and a footer built from the options.
*/
package assembler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notargets/gocadinp/coupling"
	"github.com/notargets/gocadinp/encoder"
	"github.com/notargets/gocadinp/logger"
	"github.com/notargets/gocadinp/registry"
	"github.com/notargets/gocadinp/types"
)

// CompileError aborts a compile, no text is produced
type CompileError struct {
	Element string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %s: %v", e.Element, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

type Result struct {
	Text        string
	Diagnostics types.Diagnostics
	Elements    int // element records written
	Couplings   int // coupling records written
}

type Assembler struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Assembler {
	if log == nil {
		log = logger.Nop()
	}
	return &Assembler{log: log}
}

// Compile is a convenience for a one shot compile without logging
func Compile(m *types.Model, opts Options) (*Result, error) {
	return New(nil).Compile(m, opts)
}

/*
Compile writes the solver input for m. Synthetic ids handed out for the compile are removed from
the elements before Compile returns, whatever the outcome, so compiling the same model twice gives
identical text. Recoverable problems are collected in Result.Diagnostics; an unsupported geometry
representation returns a *CompileError.
*/
func (a *Assembler) Compile(m *types.Model, opts Options) (result *Result, err error) {
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	var (
		log   = a.log.With("run", uuid.NewString())
		start = time.Now()
		diags types.Diagnostics
	)

	res := registry.Resolve(m.Arena, m.Elements, m.RelationRefs(), opts.StartIndex)
	defer res.Reset(m.Arena)
	log.Debug("identities resolved", "assigned", res.Assigned.Len(), "synthetic", len(res.Synthetic),
		"dropped", len(res.Dropped))
	for _, ref := range res.Dropped {
		diags.Info("%s is listed more than once, later copies dropped", types.Label(m.Arena.Get(ref)))
	}
	for i, r := range m.Relations {
		if r.Status != types.StatusModified {
			continue
		}
		anchor := types.Label(m.Arena.Get(r.A))
		if res.IsSynthetic(r.A) {
			anchor += " (generated id)"
		}
		diags.Info("coupling %d: inputs swapped, the record is written on %s", i+1, anchor)
	}
	if _, folded := encoder.SingleLine(opts.Title); folded {
		diags.Warn("title: line breaks replaced by blanks")
	}

	ix := coupling.Build(m.Arena, m.Relations, res, &diags)
	log.Debug("couplings indexed", "relations", len(m.Relations), "anchors", ix.Len())
	walked := make(map[uint32]bool, len(res.Walk))
	for _, ref := range res.Walk {
		if id := res.ID(ref); id != 0 {
			walked[id] = true
		}
	}
	for _, id := range ix.Anchors() {
		if !walked[id] {
			diags.Info("%d coupling(s) anchored on id %d not written, the element is not in the element list",
				len(ix.Relations(id)), id)
		}
	}

	var (
		w   = &writer{}
		enc = encoder.NewEncoder(opts.Tolerance)
	)
	result = &Result{}
	w.header(opts)
	for _, ref := range res.Walk {
		var (
			e    = m.Arena.Get(ref)
			id   = res.ID(ref)
			recs []*encoder.Record
		)
		recs, err = a.encodeElement(enc, e, id, &diags)
		switch {
		case errors.Is(err, encoder.ErrUnsupportedGeometryKind):
			log.Error("compile aborted", "element", types.Label(e), "error", err)
			return nil, &CompileError{Element: types.Label(e), Err: err}
		case err != nil:
			diags.Error("%s skipped: %v", types.Label(e), err)
			err = nil
			continue
		}
		w.records(recs...)
		result.Elements++
		for _, rel := range ix.Relations(id) {
			var b types.Element
			if rel.B.Valid() {
				b = m.Arena.Get(rel.B)
			}
			rec, cerr := couplingRecord(e, b, res.ID(rel.B), rel)
			if cerr != nil {
				diags.Warn("%s coupling skipped: %v", rel.Kind(), cerr)
				continue
			}
			w.records(rec)
			result.Couplings++
		}
	}
	log.Debug("elements written", "walked", len(res.Walk), "elements", result.Elements, "couplings", result.Couplings)
	w.footer(opts)

	result.Text = w.String()
	result.Diagnostics = diags
	log.Info("compiled", "elements", result.Elements, "couplings", result.Couplings,
		"warnings", len(diags.Filter(types.SeverityWarning)), "errors", len(diags.Filter(types.SeverityError)),
		"elapsed", time.Since(start))
	return
}

func (a *Assembler) encodeElement(enc *encoder.Encoder, e types.Element, id uint32,
	diags *types.Diagnostics) (recs []*encoder.Record, err error) {
	c := e.Common()
	if problem := checkFixation(c.Fixation); problem != "" {
		diags.Warn("%s: %s", types.Label(e), problem)
	}
	if _, folded := encoder.SingleLine(c.Text); folded {
		diags.Warn("%s: line breaks in text replaced by blanks", types.Label(e))
	}
	recs = append(recs, elementRecord(e, id))
	var (
		geom []*encoder.Record
		gd   types.Diagnostics
	)
	switch el := e.(type) {
	case *types.Point:
	case *types.Line:
		geom, err = enc.EncodeCurve(el.Curve, &gd)
	case *types.Area:
		geom, err = enc.EncodeSurface(el.Surface, &gd)
	}
	for _, d := range gd {
		diags.Add(d.Severity, "%s: %s", types.Label(e), d.Message)
	}
	if err != nil {
		return nil, err
	}
	return append(recs, geom...), nil
}

type writer struct {
	lines []string
}

func (w *writer) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *writer) records(recs ...*encoder.Record) {
	for _, r := range recs {
		w.line(r.String())
	}
}

// text writes free form lines, trailing blanks removed and empty lines skipped
func (w *writer) text(s string) {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimRight(l, " \t\r"); strings.TrimSpace(l) != "" {
			w.line(l)
		}
	}
}

func (w *writer) header(opts Options) {
	w.line("+PROG " + opts.Module)
	w.records(encoder.NewRecord("HEAD").Text(opts.Title))
	w.line("PAGE UNII 0")
	if opts.InitSystem {
		w.line("SYST 3D GDIR NEGZ GDIV -1000")
	} else {
		w.line("SYST REST")
	}
	w.records(encoder.NewRecord("CTRL").Coord("TOLG", opts.Tolerance))
	if opts.MeshDensity > 0 {
		w.records(encoder.NewRecord("CTRL").Coord("HMIN", opts.MeshDensity))
	}
	w.text(opts.ControlText)
}

func (w *writer) footer(opts Options) {
	w.text(opts.UserText)
	w.line("END")
}

func (w *writer) String() string {
	return strings.Join(w.lines, "\n") + "\n"
}
