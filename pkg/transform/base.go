package transform

// BasePass provides the metadata half of the Pass interface. Embed it in
// pass implementations and override methods as needed.
type BasePass struct {
	name  string
	desc  string
	stage Stage
	order int
}

// NewBasePass creates a BasePass with the given properties.
func NewBasePass(name, desc string, stage Stage, order int) BasePass {
	return BasePass{
		name:  name,
		desc:  desc,
		stage: stage,
		order: order,
	}
}

// Name returns the pass name.
func (p *BasePass) Name() string {
	return p.name
}

// Description returns the pass description.
func (p *BasePass) Description() string {
	return p.desc
}

// Stage returns when the pass runs.
func (p *BasePass) Stage() Stage {
	return p.stage
}

// Order returns the position of the pass within its stage.
func (p *BasePass) Order() int {
	return p.order
}

// DefaultEnabled returns true. Override it for opt-in passes.
func (p *BasePass) DefaultEnabled() bool {
	return true
}

// Apply must be overridden by concrete passes.
func (p *BasePass) Apply(_ *State) error {
	return nil
}
