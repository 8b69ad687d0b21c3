package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pipewright/pipewright/internal/compiler"
	"github.com/pipewright/pipewright/internal/resource"
	"github.com/pipewright/pipewright/internal/variant"
)

// planStep is the JSON shape of one step in an execution plan.
type planStep struct {
	Name       string            `json:"name"`
	Command    []string          `json:"command,omitempty"`
	Depends    []string          `json:"depends,omitempty"`
	Inputs     map[string]string `json:"inputs,omitempty"`
	Outputs    map[string]string `json:"outputs,omitempty"`
	Timeout    string            `json:"timeout,omitempty"`
	Privileged bool              `json:"privileged,omitempty"`
	PublishTo  []string          `json:"publish_to,omitempty"`
	Synthetic  bool              `json:"synthetic,omitempty"`
}

// planVariant is the JSON shape of one compiled variant: its steps grouped
// into batches that may run concurrently, batch after batch.
type planVariant struct {
	Name    string       `json:"name"`
	Batches [][]planStep `json:"batches"`
}

// planResource is the JSON shape of one registered resource.
type planResource struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Trigger bool   `json:"trigger,omitempty"`
}

type plan struct {
	Variants  []planVariant  `json:"variants"`
	Resources []planResource `json:"resources"`
}

// RenderPlan writes the compiled result as an indented JSON execution plan.
func (a *App) RenderPlan(w io.Writer, result *compiler.Result) error {
	p := plan{}

	for _, name := range sortedVariantNames(result) {
		pv, err := renderVariant(result.Variants[name])
		if err != nil {
			return err
		}
		p.Variants = append(p.Variants, pv)
	}

	for _, res := range result.Resources.All() {
		pr := planResource{
			Name: res.Identifier().Name(),
			Type: res.Identifier().Type,
		}
		if trig, ok := res.(resource.Triggerable); ok {
			pr.Trigger = trig.ShouldTrigger()
		}
		p.Resources = append(p.Resources, pr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// RenderGraph writes a plain-text view of each variant's batches, one
// batch per line, for quick inspection of the step order.
func (a *App) RenderGraph(w io.Writer, result *compiler.Result) error {
	for _, name := range sortedVariantNames(result) {
		v := result.Variants[name]
		batches, err := v.OrderedSteps()
		if err != nil {
			return fmt.Errorf("variant %s: %w", name, err)
		}
		fmt.Fprintf(w, "variant %s\n", name)
		for i, batch := range batches {
			fmt.Fprintf(w, "  %d: %s\n", i+1, strings.Join(batch, ", "))
		}
	}
	return nil
}

func sortedVariantNames(result *compiler.Result) []string {
	names := make([]string, 0, len(result.Variants))
	for name := range result.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderVariant(v *variant.Variant) (planVariant, error) {
	batches, err := v.OrderedSteps()
	if err != nil {
		return planVariant{}, fmt.Errorf("variant %s: %w", v.Name(), err)
	}

	pv := planVariant{Name: v.Name()}
	for _, batch := range batches {
		steps := make([]planStep, 0, len(batch))
		for _, stepName := range batch {
			s, ok := v.Step(stepName)
			if !ok {
				return planVariant{}, fmt.Errorf("variant %s: ordered step %s not found", v.Name(), stepName)
			}

			argv, err := s.Argv()
			if err != nil {
				return planVariant{}, fmt.Errorf("variant %s: step %s: %w", v.Name(), stepName, err)
			}

			ps := planStep{
				Name:       s.Name(),
				Command:    argv,
				Depends:    s.Dependencies(),
				Inputs:     s.Inputs(),
				Outputs:    s.Outputs(),
				Privileged: s.Privileged(),
				PublishTo:  s.PublishTo(),
				Synthetic:  s.Synthetic(),
			}
			if s.Timeout() > 0 {
				ps.Timeout = s.Timeout().Round(time.Second).String()
			}
			steps = append(steps, ps)
		}
		pv.Batches = append(pv.Batches, steps)
	}
	return pv, nil
}
