package pipeline

import "fmt"

// Transform is one tree-to-tree stage. Implementations rewrite the
// document in place and must not touch state outside it.
type Transform interface {
	Name() string
	Apply(doc *Document) error
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc struct {
	StageName string
	Fn        func(doc *Document) error
}

func (t TransformFunc) Name() string              { return t.StageName }
func (t TransformFunc) Apply(doc *Document) error { return t.Fn(doc) }

// chain applies its stages in order and stops at the first error.
type chain []Transform

// Chain composes transforms into one, applied in the given order.
// Nil entries are skipped so optional stages can be passed unconditionally.
func Chain(stages ...Transform) Transform {
	c := make(chain, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}

func (c chain) Name() string {
	name := ""
	for i, s := range c {
		if i > 0 {
			name += "+"
		}
		name += s.Name()
	}
	return name
}

func (c chain) Apply(doc *Document) error {
	for _, s := range c {
		if err := s.Apply(doc); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}
