// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// VertexShader is shared by every material program.
//
//go:embed material.vert
var VertexShader string

// GenericFragmentShader draws a single diffuse texture or plain white.
//
//go:embed generic.frag
var GenericFragmentShader string

// NormalMapFragmentShader is the template for normal-mapped programs. It is
// expanded with text/template before compilation.
//
//go:embed normalmap.frag.tmpl
var NormalMapFragmentShader string
