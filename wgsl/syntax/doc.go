// Package syntax parses WGSL (WebGPU Shading Language) source text.
//
// It is a checker for generated code, not a compiler frontend: the parser
// builds a plain AST and enforces the WGSL grammar rules generated code most
// easily breaks, such as operator mixing, template lists and switch
// defaults. It does not resolve names or types.
//
// # Usage
//
//	module, err := syntax.ParseModule(source)
//	if err != nil {
//	    var serr *syntax.Error
//	    if errors.As(err, &serr) {
//	        fmt.Print(serr.FormatWithContext(source))
//	    }
//	}
//
//	ty, err := syntax.ParseType("array<vec4<f32>, 4>")
//	fmt.Println(ty) // array<vec4<f32>, 4>
package syntax
