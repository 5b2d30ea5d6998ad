package layers

import "fmt"

// Layer identifies one of the eight canonical scoring layers.
// The set is closed: adding a layer requires touching every exhaustive
// switch in this package, which is intentional.
type Layer int

const (
	Base Layer = iota
	Chain
	Unit
	Question
	Dimension
	Policy
	Congruence
	Meta
)

// All lists the canonical layers in their fixed order.
var All = []Layer{Base, Chain, Unit, Question, Dimension, Policy, Congruence, Meta}

func (l Layer) String() string {
	switch l {
	case Base:
		return "@b"
	case Chain:
		return "@chain"
	case Unit:
		return "@u"
	case Question:
		return "@q"
	case Dimension:
		return "@d"
	case Policy:
		return "@p"
	case Congruence:
		return "@C"
	case Meta:
		return "@m"
	default:
		return "unknown"
	}
}

// Parse maps a canonical tag back to its Layer.
func Parse(tag string) (Layer, error) {
	for _, l := range All {
		if l.String() == tag {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layer tag: %q", tag)
}

// Contextual reports whether the layer scores contextual compatibility
// (the @q/@d/@p family shares one failure-attribution bucket).
func (l Layer) Contextual() bool {
	return l == Question || l == Dimension || l == Policy
}

// Score is the immutable result of evaluating one layer for one subject.
type Score struct {
	Layer      Layer
	Value      float64
	Components map[string]float64
	Rationale  string
}

// Role is the functional category of a method. It determines the
// required-layer set and the fusion weights used for the method.
type Role string

const (
	RoleAnalyzer     Role = "analyzer"
	RoleProcessor    Role = "processor"
	RoleIngest       Role = "ingest"
	RoleStructure    Role = "structure"
	RoleExtract      Role = "extract"
	RoleAggregate    Role = "aggregate"
	RoleReport       Role = "report"
	RoleUtility      Role = "utility"
	RoleOrchestrator Role = "orchestrator"
	RoleMeta         Role = "meta"
	RoleTransform    Role = "transform"
)

// Roles lists every catalogued role.
var Roles = []Role{
	RoleAnalyzer, RoleProcessor, RoleIngest, RoleStructure, RoleExtract,
	RoleAggregate, RoleReport, RoleUtility, RoleOrchestrator, RoleMeta,
	RoleTransform,
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Context is the execution context a subject is calibrated against.
type Context struct {
	QuestionID  string  `yaml:"question" json:"question"`
	Dimension   string  `yaml:"dimension" json:"dimension"`
	PolicyArea  string  `yaml:"policy" json:"policy"`
	UnitQuality float64 `yaml:"unit_quality" json:"unit_quality"`
}

/// Subject identifies what is being calibrated: a method, its role, and
// the context it would execute in. Immutable once constructed.
type Subject struct {
	MethodID string
	Role     Role
	Context  Context
}

func (s Subject) String() string {
	return fmt.Sprintf("%s[%s] q=%s d=%s p=%s u=%.2f",
		s.MethodID, s.Role, s.Context.QuestionID, s.Context.Dimension,
		s.Context.PolicyArea, s.Context.UnitQuality)
}
