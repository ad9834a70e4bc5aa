package lowering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/axiscore/internal/core"
	"github.com/sunholo/axiscore/internal/parser"
	"github.com/sunholo/axiscore/internal/registry"
)

func TestLowerZeroParamFnWithTwoArgCall(t *testing.T) {
	reg := &registry.ActiveRegistry{
		Entries:       map[string]registry.RegistryEntry{"add": {Name: "add", Arity: 2, Profiles: map[string]bool{"default": true}}},
		ActiveProfile: "default",
	}
	f, errs := parser.ParseFile([]byte(`fn main() -> Int { add(1, 2) }`), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)
	require.Equal(t, "main", bundle.EntrypointName)

	lam, ok := bundle.Root.(*core.CLam)
	require.True(t, ok)
	require.Equal(t, "_", lam.Param)

	app, ok := lam.Body.(*core.CApp)
	require.True(t, ok)
	fn, ok := app.Fn.(*core.CVar)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	tup, ok := app.Arg.(*core.CTuple)
	require.True(t, ok)
	require.Len(t, tup.Elems, 2)
}

func TestLowerArityMismatch(t *testing.T) {
	reg := &registry.ActiveRegistry{
		Entries:       map[string]registry.RegistryEntry{"add": {Name: "add", Arity: 2, Profiles: map[string]bool{"default": true}}},
		ActiveProfile: "default",
	}
	f, errs := parser.ParseFile([]byte(`fn main() -> Int { add(1) }`), "test.ax")
	require.Empty(t, errs)

	_, lowerErrs := LowerFile(f, reg)
	require.Len(t, lowerErrs, 1)
	require.Equal(t, "ArityMismatch", lowerErrs[0].Kind)
}

func TestLowerProfileDenied(t *testing.T) {
	reg := &registry.ActiveRegistry{
		Entries:       map[string]registry.RegistryEntry{"secret": {Name: "secret", Arity: 0, Profiles: map[string]bool{"internal": true}}},
		ActiveProfile: "default",
	}
	f, errs := parser.ParseFile([]byte(`fn main() -> Int { secret() }`), "test.ax")
	require.Empty(t, errs)

	_, lowerErrs := LowerFile(f, reg)
	require.NotEmpty(t, lowerErrs)
	require.Equal(t, "ProfileDenied", lowerErrs[0].Kind)
}

func TestLowerSingleParamFunctionProjectsArg(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	f, errs := parser.ParseFile([]byte(`fn pick(t: Pair) -> Int { proj(t, 0) }`), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)

	lam := bundle.Root.(*core.CLam)
	require.Equal(t, "arg", lam.Param)

	letT, ok := lam.Body.(*core.CLet)
	require.True(t, ok)
	require.Equal(t, "t", letT.Name)
	projArg := letT.Value.(*core.CProj)
	require.Equal(t, 0, projArg.Index)
	argVar := projArg.Term.(*core.CVar)
	require.Equal(t, "arg", argVar.Name)

	proj, ok := letT.Body.(*core.CProj)
	require.True(t, ok)
	require.Equal(t, 0, proj.Index)
	tVar := proj.Term.(*core.CVar)
	require.Equal(t, "t", tVar.Name)
}

func TestLowerTwoParamFunctionWrapsTupleProjections(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	f, errs := parser.ParseFile([]byte(`fn addxy(x: Int, y: Int) -> Int { x }`), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)

	lam := bundle.Root.(*core.CLam)
	require.Equal(t, "arg", lam.Param)
	letX, ok := lam.Body.(*core.CLet)
	require.True(t, ok)
	require.Equal(t, "x", letX.Name)
	projX := letX.Value.(*core.CProj)
	require.Equal(t, 0, projX.Index)

	letY := letX.Body.(*core.CLet)
	require.Equal(t, "y", letY.Name)
	projY := letY.Value.(*core.CProj)
	require.Equal(t, 1, projY.Index)
}

func TestLowerEnumConstructorAndMatch(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
enum Option {
  Some(value: Int),
  None(),
}

fn unwrap(o: Option) -> Int {
  match o {
    Option_Some(x) => x,
    Option_None() => 0,
  }
}
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)
	require.Equal(t, "unwrap", bundle.EntrypointName)

	lam := bundle.Root.(*core.CLam)
	letO, ok := lam.Body.(*core.CLet)
	require.True(t, ok)
	match, ok := letO.Body.(*core.CMatch)
	require.True(t, ok)
	require.Len(t, match.Arms, 2)
	ctor0 := match.Arms[0].Pattern.(*core.CPCtor)
	require.Equal(t, "Option_Some", ctor0.Name)
	require.Len(t, ctor0.Inner, 1)
}

func TestLowerBareFieldlessEnumPatternLowersToCPCtor(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
enum Option {
  Some(value: Int),
  None(),
}

fn unwrap(o: Option) -> Int {
  match o {
    Option_Some(x) => x,
    Option_None => 0,
  }
}
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)

	lam := bundle.Root.(*core.CLam)
	match := lam.Body.(*core.CLet).Body.(*core.CMatch)
	require.Len(t, match.Arms, 2)
	ctor1, ok := match.Arms[1].Pattern.(*core.CPCtor)
	require.True(t, ok, "bare Option_None pattern must lower to CPCtor, not CPVar")
	require.Equal(t, "Option_None", ctor1.Name)
	require.Empty(t, ctor1.Inner)
}

func TestLowerBareFieldlessEnumPatternAloneIsNotExhaustive(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
enum Option {
  Some(value: Int),
  None(),
}

fn unwrap(o: Option) -> Int {
  match o {
    Option_None => 0,
  }
}
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	_, lowerErrs := LowerFile(f, reg)
	require.Len(t, lowerErrs, 1)
	require.Equal(t, "NonExhaustive", lowerErrs[0].Kind)
}

func TestLowerMatchOnDirectConstructorScrutineeIsExhaustive(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
enum Option {
  Some(value: Int),
  None(),
}

fn unwrap() -> Int {
  match Option_Some(3) {
    Option_None() => 0,
    Option_Some(x) => x,
  }
}
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)

	lam := bundle.Root.(*core.CLam)
	match, ok := lam.Body.(*core.CMatch)
	require.True(t, ok)
	require.Len(t, match.Arms, 2)
}

func TestLowerNonExhaustiveMatchFails(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
enum Option {
  Some(value: Int),
  None(),
}

fn unwrap(o: Option) -> Int {
  match o {
    Option_Some(x) => x,
  }
}
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	_, lowerErrs := LowerFile(f, reg)
	require.Len(t, lowerErrs, 1)
	require.Equal(t, "NonExhaustive", lowerErrs[0].Kind)
}

func TestLowerEmptyFileProducesUnitBundle(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	f, errs := parser.ParseFile([]byte(``), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)
	require.Equal(t, "main", bundle.EntrypointName)
	_, ok := bundle.Root.(*core.CUnitLit)
	require.True(t, ok)
}

func TestLowerRecordLiteralPreservesDeclarationOrder(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	f, errs := parser.ParseFile([]byte(`fn f() -> Pair { Pair { first: 1, second: 2 } }`), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)
	lam := bundle.Root.(*core.CLam)
	ctor := lam.Body.(*core.CCtor)
	require.Equal(t, "Pair", ctor.Name)
	require.Len(t, ctor.Fields, 2)
	require.Equal(t, int64(1), ctor.Fields[0].(*core.CIntLit).Value)
	require.Equal(t, int64(2), ctor.Fields[1].(*core.CIntLit).Value)
}

func TestLowerHelperFunctionsAreLetBoundAroundEntrypoint(t *testing.T) {
	reg := &registry.ActiveRegistry{Entries: map[string]registry.RegistryEntry{}, ActiveProfile: "default"}
	src := `
fn helper() -> Int { 1 }
fn main() -> Int { helper() }
`
	f, errs := parser.ParseFile([]byte(src), "test.ax")
	require.Empty(t, errs)

	bundle, lowerErrs := LowerFile(f, reg)
	require.Empty(t, lowerErrs)
	require.Equal(t, "main", bundle.EntrypointName)

	outer, ok := bundle.Root.(*core.CLet)
	require.True(t, ok)
	require.Equal(t, "helper", outer.Name)
}
