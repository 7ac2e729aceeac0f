// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ValidateShader parses, lowers and validates the WGSL source of desc with
// naga and checks that it declares desc.EntryPoint for desc.Stage.
// Entry points that are missing, or declared for another stage, are
// reported as ErrUnsupportedProgram.
func ValidateShader(desc *ShaderDescriptor) error {
	if desc == nil || desc.Source == "" || desc.EntryPoint == "" {
		return fmt.Errorf("%w: empty shader descriptor", ErrInvalidDescriptor)
	}
	ast, err := naga.Parse(desc.Source)
	if err != nil {
		return err
	}
	module, err := naga.LowerWithSource(ast, desc.Source)
	if err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("validation failed: %w", &verrs[0])
	}
	want := ir.StageVertex
	if desc.Stage == StageFragment {
		want = ir.StageFragment
	}
	for _, ep := range module.EntryPoints {
		if ep.Name == desc.EntryPoint && ep.Stage == want {
			return nil
		}
	}
	return fmt.Errorf("%w: module has no %s entry point %q", ErrUnsupportedProgram, desc.Stage, desc.EntryPoint)
}
