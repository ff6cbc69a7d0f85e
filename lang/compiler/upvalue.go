package compiler

// resolveUpvalue implements spec.md §4.4: given a name referenced in fs
// that is not one of fs's own locals, bind it either to a parent local or
// to an upvalue the parent itself already has (or can obtain by recursing
// further up), appending a new entry to fs.Upvalues on success. It returns
// the resolved Upvalue and true, or false if no ancestor provides the name
// (the caller must then treat it as a global access through _ENV).
//
// Each prototype computes its own Upvalue relative only to its immediate
// Parent: a direct parent-local capture is InStack true with Idx equal to
// the local's register; a capture relayed through an ancestor further up
// is InStack false with Idx equal to the slot resolveUpvalue(fs.Parent, ...)
// assigned in the parent's own Upvalues. Recursing into the parent (rather
// than walking the whole chain from fs and retrofitting every intermediate
// span, as an earlier iterative version of this function did) is what
// keeps each level's Idx correctly relative to its own Parent.
//
// Grounded on the teacher's Cell/Free upvalue promotion walk in its
// lang/resolver package, inlined here rather than kept as a separate
// pre-pass since the AST contract carries no pre-resolved Binding
// annotations (spec.md §6); identifiers are bare names resolved against
// the live FnState chain during the single codegen pass.
func (fs *FnState) resolveUpvalue(name string) (Upvalue, bool) {
	if uv, ok := fs.resolveOwnUpvalue(name); ok {
		return uv, true
	}

	if fs.Parent == nil {
		return Upvalue{}, false
	}

	if local, ok := fs.Parent.lookupLocal(name); ok {
		v := Upvalue{Name: name, InStack: true, Idx: local.Reg}
		fs.Upvalues = append(fs.Upvalues, v)
		return v, true
	}

	if parentUv, ok := fs.Parent.resolveUpvalue(name); ok {
		slot := 0
		for i, puv := range fs.Parent.Upvalues {
			if puv.Name == parentUv.Name {
				slot = i
				break
			}
		}
		v := Upvalue{Name: name, InStack: false, Idx: uint8(slot)}
		fs.Upvalues = append(fs.Upvalues, v)
		return v, true
	}

	return Upvalue{}, false
}

// resolveOwnUpvalue reports whether fs has already captured name as an
// upvalue, without attempting to resolve it further up the chain.
func (fs *FnState) resolveOwnUpvalue(name string) (Upvalue, bool) {
	for i, uv := range fs.Upvalues {
		if uv.Name == name {
			return fs.Upvalues[i], true
		}
	}
	return Upvalue{}, false
}

// ensureEnvUpvalue resolves (or creates) the _ENV upvalue in fs, returning
// its index. _ENV is always index 0 on the root prototype (spec.md §3) and
// is lazily propagated to any nested prototype that references a global,
// per §4.4's general capture mechanism.
func (fs *FnState) ensureEnvUpvalue() uint8 {
	if fs.Parent == nil {
		// Root: _ENV is bootstrapped at index 0 by newRoot.
		return 0
	}
	uv, ok := fs.resolveUpvalue("_ENV")
	if !ok {
		panic("compiler: _ENV not reachable from nested prototype")
	}
	return uv.Idx
}
