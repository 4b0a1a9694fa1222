package emit

import "strings"

// DeclaratorKind tags a Declarator.
type DeclaratorKind uint8

// Declarator kinds.
const (
	DeclName DeclaratorKind = iota
	DeclSizedArray
	DeclUnsizedArray
	DeclLiteralSizedArray
	DeclPointer
	DeclReference
	DeclAttributed
)

var declaratorKindNames = [...]string{
	DeclName:              "name",
	DeclSizedArray:        "sized array",
	DeclUnsizedArray:      "unsized array",
	DeclLiteralSizedArray: "literal-sized array",
	DeclPointer:           "pointer",
	DeclReference:         "reference",
	DeclAttributed:        "attributed",
}

// String returns the kind name.
func (k DeclaratorKind) String() string {
	if int(k) < len(declaratorKindNames) {
		return declaratorKindNames[k]
	}
	return "unknown"
}

// Declarator describes how a declared name is wrapped by its type in C-like
// syntax. Chains are built per declaration site and are never shared.
type Declarator struct {
	Kind DeclaratorKind

	// Name is the identifier of a DeclName.
	Name string

	// Count is the element count of a DeclLiteralSizedArray.
	Count uint32

	// CountName is the constant naming the element count of a DeclSizedArray.
	CountName string

	// Attributes are the attributes of a DeclAttributed.
	Attributes []string

	// Next is the wrapped declarator. It is nil only for DeclName.
	Next *Declarator
}

// Name returns a plain name declarator.
func Name(name string) *Declarator {
	return &Declarator{Kind: DeclName, Name: name}
}

// Attributed wraps next with attributes. With no attributes next is returned as is.
func Attributed(next *Declarator, attrs ...string) *Declarator {
	if len(attrs) == 0 {
		return next
	}
	return &Declarator{Kind: DeclAttributed, Attributes: attrs, Next: next}
}

// LiteralSizedArray wraps next in an array of count elements.
func LiteralSizedArray(next *Declarator, count uint32) *Declarator {
	return &Declarator{Kind: DeclLiteralSizedArray, Count: count, Next: next}
}

// SizedArray wraps next in an array sized by a named constant.
func SizedArray(next *Declarator, countName string) *Declarator {
	return &Declarator{Kind: DeclSizedArray, CountName: countName, Next: next}
}

// UnsizedArray wraps next in a runtime-sized array.
func UnsizedArray(next *Declarator) *Declarator {
	return &Declarator{Kind: DeclUnsizedArray, Next: next}
}

// Pointer wraps next in a pointer.
func Pointer(next *Declarator) *Declarator {
	return &Declarator{Kind: DeclPointer, Next: next}
}

// Reference wraps next in a reference.
func Reference(next *Declarator) *Declarator {
	return &Declarator{Kind: DeclReference, Next: next}
}

// emitArrayElementDeclarator renders the declarator an array suffix applies to.
// Array suffixes bind tighter than pointer sigils, so a pointer to an array
// is parenthesized: (*name)[4].
func (e *Emitter) emitArrayElementDeclarator(next *Declarator) error {
	if next != nil && (next.Kind == DeclPointer || next.Kind == DeclReference) {
		e.out.Write("(")
		if err := e.target.EmitDeclarator(next); err != nil {
			return err
		}
		e.out.Write(")")
		return nil
	}
	return e.target.EmitDeclarator(next)
}

// DefaultEmitDeclarator renders decl in C syntax: arrays as postfix
// brackets, pointers and references as prefix sigils, attributes after the
// wrapped declarator.
func (e *Emitter) DefaultEmitDeclarator(decl *Declarator) error {
	if decl == nil {
		return nil
	}
	switch decl.Kind {
	case DeclName:
		e.out.Write(decl.Name)
		return nil
	case DeclLiteralSizedArray:
		if err := e.emitArrayElementDeclarator(decl.Next); err != nil {
			return err
		}
		e.out.Writef("[%d]", decl.Count)
		return nil
	case DeclSizedArray:
		if err := e.emitArrayElementDeclarator(decl.Next); err != nil {
			return err
		}
		e.out.Writef("[%s]", decl.CountName)
		return nil
	case DeclUnsizedArray:
		if err := e.emitArrayElementDeclarator(decl.Next); err != nil {
			return err
		}
		e.out.Write("[]")
		return nil
	case DeclPointer:
		e.out.Write("*")
		return e.target.EmitDeclarator(decl.Next)
	case DeclReference:
		e.out.Write("&")
		return e.target.EmitDeclarator(decl.Next)
	case DeclAttributed:
		if err := e.target.EmitDeclarator(decl.Next); err != nil {
			return err
		}
		e.out.Write(" " + strings.Join(decl.Attributes, " "))
		return nil
	default:
		return e.target.Unsupportedf("declarator %s", decl.Kind)
	}
}
