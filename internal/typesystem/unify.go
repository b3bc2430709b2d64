package typesystem

import "fmt"

// Unify walks param (a possibly-generic parameter type) against arg (a
// concrete argument type), binding any GenericParam it finds into
// subst. Used at call sites to deduce generic type arguments when none
// are supplied explicitly (§4.1 "Call": "parameter types are unified
// against argument types to deduce them").
func Unify(param, arg Type, subst Subst) error {
	switch p := param.(type) {
	case GenericParam:
		if existing, ok := subst[p.Name]; ok {
			if !Equal(existing, arg) {
				return fmt.Errorf("generic parameter %s: cannot unify %s with %s", p.Name, existing, arg)
			}
			return nil
		}
		subst[p.Name] = arg
		return nil
	case Array:
		a, ok := arg.(Array)
		if !ok {
			return fmt.Errorf("cannot unify array type %s with %s", param, arg)
		}
		return Unify(p.Element, a.Element, subst)
	case Function:
		a, ok := arg.(Function)
		if !ok {
			return fmt.Errorf("cannot unify function type %s with %s", param, arg)
		}
		if len(p.Params) != len(a.Params) {
			return fmt.Errorf("cannot unify function type %s with %s: arity mismatch", param, arg)
		}
		for i := range p.Params {
			if err := Unify(p.Params[i], a.Params[i], subst); err != nil {
				return err
			}
		}
		if p.Return != nil && a.Return != nil {
			return Unify(p.Return, a.Return, subst)
		}
		return nil
	case *Struct:
		a, ok := arg.(*Struct)
		if !ok || a.Name != p.Name {
			return fmt.Errorf("cannot unify struct type %s with %s", param, arg)
		}
		for i := range p.Fields {
			if i < len(a.Fields) {
				if err := Unify(p.Fields[i].Type, a.Fields[i].Type, subst); err != nil {
					return err
				}
			}
		}
		return nil
	case *Enum:
		a, ok := arg.(*Enum)
		if !ok || a.Name != p.Name {
			return fmt.Errorf("cannot unify enum type %s with %s", param, arg)
		}
		return nil
	default:
		if !Equal(param, arg) {
			return fmt.Errorf("cannot unify %s with %s", param, arg)
		}
		return nil
	}
}
