package types

import "strings"

type ElementKind uint8

const (
	KindPoint ElementKind = iota
	KindLine
	KindArea
)

func (k ElementKind) String() string {
	return [...]string{"Point", "Line", "Area"}[k]
}

var ElementNameMap = map[string]ElementKind{
	"point": KindPoint,
	"pt":    KindPoint,
	"line":  KindLine,
	"curve": KindLine,
	"ln":    KindLine,
	"area":  KindArea,
	"surf":  KindArea,
}

type CouplingKind uint8

const (
	CouplingRigid CouplingKind = iota
	CouplingElastic
	CouplingSpring
)

func (k CouplingKind) String() string {
	return [...]string{"Rigid", "Elastic", "Spring"}[k]
}

var CouplingNameMap = map[string]CouplingKind{
	"rigid":   CouplingRigid,
	"elastic": CouplingElastic,
	"spring":  CouplingSpring,
}

// ParseElementKind accepts the names in ElementNameMap, case insensitive
func ParseElementKind(name string) (k ElementKind, ok bool) {
	k, ok = ElementNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}

func ParseCouplingKind(name string) (k CouplingKind, ok bool) {
	k, ok = CouplingNameMap[strings.ToLower(strings.TrimSpace(name))]
	return
}

// InputStatus reports what happened to the A/B inputs of a coupling relation
type InputStatus uint8

const (
	StatusOK InputStatus = iota
	StatusModified
	StatusInvalid
)

func (s InputStatus) String() string {
	return [...]string{"OK", "Modified", "Invalid"}[s]
}
