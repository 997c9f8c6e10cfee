package InputParameters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

/*
ModelFile is a structural model as written by the user. YAML and JSON files go through the json tags,
HCL files through the hcl tags, where element, curve and coupling names become block labels:

	element "column" {
	  kind = "line"
	  curve "segment" {
	    start = [0, 0, 0]
	    end   = [0, 0, 3]
	  }
	}
*/
type ModelFile struct {
	Title     string           `json:"title" hcl:"title,optional"`
	Options   *OptionsBlock    `json:"options" hcl:"options,block"`
	Elements  []*ElementBlock  `json:"elements" hcl:"element,block"`
	Couplings []*CouplingBlock `json:"couplings" hcl:"coupling,block"`
}

type OptionsBlock struct {
	Module      string  `json:"module" hcl:"module,optional"`
	InitSystem  *bool   `json:"init_system" hcl:"init_system,optional"`
	MeshDensity float64 `json:"mesh_density" hcl:"mesh_density,optional"`
	Tolerance   float64 `json:"tolerance" hcl:"tolerance,optional"`
	StartIndex  uint32  `json:"start_index" hcl:"start_index,optional"`
	ControlText string  `json:"control_text" hcl:"control_text,optional"`
	UserText    string  `json:"user_text" hcl:"user_text,optional"`
}

type ElementBlock struct {
	Name     string  `json:"name" hcl:"name,label"`
	Kind     string  `json:"kind" hcl:"kind"`
	ID       uint32  `json:"id" hcl:"id,optional"`
	Group    uint32  `json:"group" hcl:"group,optional"`
	External bool    `json:"external" hcl:"external,optional"` // only reachable through couplings
	Fixation string  `json:"fixation" hcl:"fixation,optional"`
	MeshSize float64 `json:"mesh_size" hcl:"mesh_size,optional"`
	Text     string  `json:"text" hcl:"text,optional"`
	// Point
	Position []float64 `json:"position" hcl:"position,optional"`
	LocalX   []float64 `json:"local_x" hcl:"local_x,optional"`
	LocalZ   []float64 `json:"local_z" hcl:"local_z,optional"`
	// Line
	Section    uint32      `json:"section" hcl:"section,optional"`
	SectionEnd uint32      `json:"section_end" hcl:"section_end,optional"`
	Curve      *CurveBlock `json:"curve" hcl:"curve,block"`
	// Area
	Material  uint32       `json:"material" hcl:"material,optional"`
	Thickness float64      `json:"thickness" hcl:"thickness,optional"`
	Outer     *LoopBlock   `json:"outer" hcl:"outer,block"`
	Inner     []*LoopBlock `json:"inner" hcl:"inner,block"`
	Patch     *PatchBlock  `json:"patch" hcl:"patch,block"`
	// Line local z, or Area local x
	Direction []float64 `json:"direction" hcl:"direction,optional"`
}

type CurveBlock struct {
	Type    string      `json:"type" hcl:"type,label"`
	Start   []float64   `json:"start" hcl:"start,optional"`
	End     []float64   `json:"end" hcl:"end,optional"`
	Center  []float64   `json:"center" hcl:"center,optional"`
	Normal  []float64   `json:"normal" hcl:"normal,optional"`
	Degree  int         `json:"degree" hcl:"degree,optional"`
	Knots   []float64   `json:"knots" hcl:"knots,optional"`
	Points  [][]float64 `json:"points" hcl:"points,optional"`
	Weights []float64   `json:"weights" hcl:"weights,optional"` // all 1 when left out
}

type LoopBlock struct {
	Curves []*CurveBlock `json:"curves" hcl:"curve,block"`
}

// PatchBlock is the underlying NURBS surface, Points[i][j] with i along U
type PatchBlock struct {
	DegreeU int           `json:"degree_u" hcl:"degree_u"`
	DegreeV int           `json:"degree_v" hcl:"degree_v"`
	KnotsU  []float64     `json:"knots_u" hcl:"knots_u"`
	KnotsV  []float64     `json:"knots_v" hcl:"knots_v"`
	Points  [][][]float64 `json:"points" hcl:"points"`
	Weights [][]float64   `json:"weights" hcl:"weights,optional"`
}

type CouplingBlock struct {
	Type       string    `json:"type" hcl:"type,label"`
	A          string    `json:"a" hcl:"a"`
	B          string    `json:"b" hcl:"b,optional"`
	Group      uint32    `json:"group" hcl:"group,optional"`
	Fixation   string    `json:"fixation" hcl:"fixation,optional"` // rigid only
	Axial      float64   `json:"axial" hcl:"axial,optional"`
	Rotational float64   `json:"rotational" hcl:"rotational,optional"`
	Direction  []float64 `json:"direction" hcl:"direction,optional"`
}

func (mf *ModelFile) Parse(data []byte) error {
	return yaml.Unmarshal(data, mf)
}

// ParseHCL decodes HCL source, filename is only used in error messages
func (mf *ModelFile) ParseHCL(data []byte, filename string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	if diags = gohcl.DecodeBody(file.Body, nil, mf); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return nil
}

// ReadModelFile picks the decoder from the file extension
func ReadModelFile(path string) (mf *ModelFile, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	mf = &ModelFile{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		err = mf.ParseHCL(data, path)
	case ".yaml", ".yml", ".json":
		if err = mf.Parse(data); err != nil {
			err = fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		err = fmt.Errorf("unsupported model file type %q: %s", ext, path)
	}
	if err != nil {
		return nil, err
	}
	return
}

func (mf *ModelFile) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", mf.Title)
	counts := make(map[string]int)
	for _, e := range mf.Elements {
		counts[strings.ToLower(e.Kind)]++
	}
	for _, kind := range []string{"point", "line", "area"} {
		fmt.Fprintf(w, "[%d]\t\t\t= %s Elements\n", counts[kind], kind)
	}
	for _, c := range mf.Couplings {
		fmt.Fprintf(w, "Coupling[%s] = %s -> %s, group %d\n", c.Type, c.A, c.B, c.Group)
	}
}
