package assembler

import (
	"fmt"
	"io"

	"github.com/notargets/gocadinp/encoder"
)

// DefaultModule is the solver program the generated input is addressed to
const DefaultModule = "SOFIMSHC"

type Options struct {
	Module      string
	Title       string
	InitSystem  bool    // start a new system instead of appending to the existing database
	MeshDensity float64 // minimum mesh size, 0 leaves the solver default
	Tolerance   float64 // geometric tolerance, also used for planarity and closedness
	StartIndex  uint32  // synthetic ids start above this value
	ControlText string  // written after the control records
	UserText    string  // written before END
}

func DefaultOptions() Options {
	return Options{
		Module:     DefaultModule,
		InitSystem: true,
		Tolerance:  encoder.DefaultTolerance,
	}
}

// withDefaults fills the zero valued fields that have a meaningful default
func (o Options) withDefaults() Options {
	if o.Module == "" {
		o.Module = DefaultModule
	}
	if o.Tolerance <= 0 {
		o.Tolerance = encoder.DefaultTolerance
	}
	return o
}

func (o Options) Validate() error {
	switch {
	case o.MeshDensity < 0:
		return fmt.Errorf("mesh density must not be negative, have %g", o.MeshDensity)
	case o.Tolerance < 0:
		return fmt.Errorf("tolerance must not be negative, have %g", o.Tolerance)
	}
	return nil
}

func (o Options) Print(w io.Writer) {
	fmt.Fprintf(w, "[%s]\t\t= Module\n", o.Module)
	fmt.Fprintf(w, "[%v]\t\t\t= Init System\n", o.InitSystem)
	fmt.Fprintf(w, "%8.5f\t\t= Mesh Density\n", o.MeshDensity)
	fmt.Fprintf(w, "%8.5f\t\t= Tolerance\n", o.Tolerance)
	fmt.Fprintf(w, "[%d]\t\t\t= Start Index\n", o.StartIndex)
}
