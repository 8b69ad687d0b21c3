package compiler

import "github.com/pipewright/pipewright/internal/variant"

// node is one vertex of the validation tree: its own check plus children
// validated first. The compiled object graph is a tree (steps, traits and
// repositories never reference each other as children), so no cycle guard
// is needed; only the step dependency graph can cycle, and that is the
// ordering code's concern.
type node struct {
	validate func() error
	children []node
}

func (n node) walk() error {
	for _, child := range n.children {
		if err := child.walk(); err != nil {
			return err
		}
	}
	return n.validate()
}

// Walk validates a compiled variant post-order: every leaf (step, trait,
// repository) before the variant's own cross-field checks, so schema
// violations surface with full context first. The first failure aborts the
// walk; there are no partial successes.
func Walk(v *variant.Variant) error {
	return tree(v).walk()
}

func tree(v *variant.Variant) node {
	var children []node
	for _, s := range v.Steps() {
		children = append(children, node{validate: s.Validate})
	}
	for _, t := range v.Traits() {
		children = append(children, node{validate: t.Validate})
	}
	for _, r := range v.Repositories() {
		children = append(children, node{validate: r.Validate})
	}
	for _, r := range v.PublishRepositories() {
		children = append(children, node{validate: r.Validate})
	}
	return node{validate: v.Validate, children: children}
}
